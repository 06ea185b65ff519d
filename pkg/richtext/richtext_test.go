package richtext

import "testing"

func TestSanitizeDropsUnknownTags(t *testing.T) {
	got := Sanitize(`<strong>Keep</strong> <script>alert(1)</script><a href="x">link</a>`)
	want := `<strong>Keep</strong> link`
	if got != want {
		t.Fatalf("Sanitize() = %q, want %q", got, want)
	}
}

func TestToMarkdown(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"<strong>The >20 Rule:</strong> pays first.", "**The >20 Rule:** pays first."},
		{"<em>note</em> and <b>bold</b>", "*note* and **bold**"},
		{"If the employer had *fewer* than 20", "If the employer had *fewer* than 20"},
		{"<strong>The <20 Danger:</strong> x", "**The <20 Danger:** x"},
		{"It's $0.", "It's $0."},
	}
	for _, tt := range tests {
		if got := ToMarkdown(tt.in); got != tt.want {
			t.Errorf("ToMarkdown(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPlain(t *testing.T) {
	in := "<strong>Special Enrollment Period (SEP):</strong> you didn't *have* to rush."
	want := "Special Enrollment Period (SEP): you didn't have to rush."
	if got := Plain(in); got != want {
		t.Fatalf("Plain() = %q, want %q", got, want)
	}
}

func TestSplit(t *testing.T) {
	label, body := Split("<strong>Must Act:</strong> Plans don't auto-renew.")
	if label != "Must Act:" || body != "Plans don't auto-renew." {
		t.Fatalf("Split() = %q, %q", label, body)
	}

	label, body = Split("No label here.")
	if label != "" || body != "No label here." {
		t.Fatalf("Split() without label = %q, %q", label, body)
	}
}
