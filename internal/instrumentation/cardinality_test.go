package instrumentation

import "testing"

func TestExtractHost(t *testing.T) {
	tests := []struct {
		url      string
		expected string
	}{
		{"https://example.com/feed.xml", "example.com"},
		{"https://Example.COM:8443/rss", "example.com"},
		{"http://blog.example.org/atom.xml?x=1", "blog.example.org"},
		{"test://feed", "feed"},
		{"not a url", "unknown"},
		{"", "unknown"},
		{"/relative/path", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			result := ExtractHost(tt.url)
			if result != tt.expected {
				t.Errorf("ExtractHost(%q) = %q, want %q", tt.url, result, tt.expected)
			}
		})
	}
}

func TestOperationConstants(t *testing.T) {
	operations := map[string]string{
		OperationList:       "list",
		OperationGet:        "get",
		OperationFetch:      "fetch",
		OperationDiscover:   "discover",
		OperationGenerate:   "generate",
		OperationSynthesize: "synthesize",
		OperationDownload:   "download",
	}

	for constant, expected := range operations {
		if constant != expected {
			t.Errorf("Operation constant = %q, want %q", constant, expected)
		}
	}
}
