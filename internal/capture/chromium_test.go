package capture

import (
	"context"
	"strings"
	"testing"
)

func TestCapturePageTextRequiresURL(t *testing.T) {
	_, err := CapturePageText(context.Background(), CaptureOptions{})
	if err == nil || !strings.Contains(err.Error(), "URL is required") {
		t.Errorf("err = %v", err)
	}
}

func TestInnerTextJSQuotesSelector(t *testing.T) {
	js := innerTextJS(`div[data-id="x"]`)
	if !strings.Contains(js, `document.querySelector("div[data-id=\"x\"]")`) {
		t.Errorf("selector not quoted: %s", js)
	}
}
