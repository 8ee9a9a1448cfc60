package extractor

import (
	"context"
	"testing"

	"github.com/ragbench/chunkbench/internal/core/domain"
)

type extractorFake struct {
	text  string
	calls int
}

func (f *extractorFake) Extract(context.Context, *domain.Document) (string, error) {
	f.calls++
	return f.text, nil
}

func TestDispatcherRoutesByMimeAndExtension(t *testing.T) {
	cases := []struct {
		name string
		doc  domain.Document
		want string
	}{
		{"pdf mime", domain.Document{Filename: "report.bin", MimeType: "application/pdf"}, "pdf text"},
		{"pdf extension", domain.Document{Filename: "report.PDF", MimeType: "application/octet-stream"}, "pdf text"},
		{"plain text", domain.Document{Filename: "notes.txt", MimeType: "text/plain"}, "plain text"},
		{"unknown", domain.Document{Filename: "notes", MimeType: ""}, "plain text"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			plain := &extractorFake{text: "plain text"}
			pdf := &extractorFake{text: "pdf text"}
			d := NewDispatcher(plain, pdf)

			got, err := d.Extract(context.Background(), &tc.doc)
			if err != nil {
				t.Fatalf("Extract() error = %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
