package source

import (
	"strings"
	"testing"
)

const savedPage = `<!DOCTYPE html>
<html><head><title>My Class Schedule</title><script>var x = "CS 999 - Hidden";</script></head>
<body>
<h1>My Class Schedule</h1>
<span class="term">Winter 2026 | Undergraduate | University of Waterloo</span>
<div class="course">
  <h2>CS 484 - Computational Vision</h2>
  <table>
    <tr><th>Status</th><th>Units</th><th>Grading</th></tr>
    <tr><td>Enrolled</td><td>0.50</td><td>Numeric   Grading Basis</td></tr>
  </table>
  <table>
    <thead><tr><th>Class Nbr</th><th>Section</th><th>Component</th></tr></thead>
    <tbody>
      <tr><td>5123</td><td>001</td><td>LEC</td><td>TTh 1:00PM - 2:20PM</td>
          <td>MC 4020</td><td><a href="#">Jane Doe</a></td><td>05/01/2026 - 06/04/2026</td></tr>
    </tbody>
  </table>
</div>
</body></html>`

func TestFromHTML(t *testing.T) {
	got, err := FromHTML(strings.NewReader(savedPage))
	if err != nil {
		t.Fatalf("FromHTML: %v", err)
	}
	want := strings.Join([]string{
		"My Class Schedule",
		"Winter 2026 | Undergraduate | University of Waterloo",
		"CS 484 - Computational Vision",
		"Status Units Grading",
		"Enrolled",
		"0.50",
		"Numeric Grading Basis",
		"Class Nbr Section Component",
		"5123",
		"001",
		"LEC",
		"TTh 1:00PM - 2:20PM",
		"MC 4020",
		"Jane Doe",
		"05/01/2026 - 06/04/2026",
	}, "\n")
	if got != want {
		t.Errorf("FromHTML =\n%s\nwant\n%s", got, want)
	}
}
