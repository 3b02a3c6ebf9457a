package output

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/zinc-sig/gradeghost/internal/history"
	"github.com/zinc-sig/gradeghost/internal/provenance"
)

func TestNewResolution(t *testing.T) {
	due := time.Date(2025, 11, 3, 20, 59, 0, 0, time.UTC)

	tests := []struct {
		name     string
		result   provenance.Result
		wantLate bool
		wantAt   bool
	}{
		{
			name:   "no history",
			result: provenance.Result{Confidence: provenance.ConfidenceUnknown, Note: "git log returned no commits"},
		},
		{
			name: "on time at the deadline",
			result: provenance.Result{
				Commit:     &history.Commit{ID: "a", When: due},
				Confidence: provenance.ConfidenceResolved,
			},
			wantAt: true,
		},
		{
			name: "late by a millisecond",
			result: provenance.Result{
				Commit:     &history.Commit{ID: "b", When: due.Add(time.Millisecond)},
				Confidence: provenance.ConfidenceFallback,
			},
			wantLate: true,
			wantAt:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewResolution(tt.result, due)
			if res.Late != tt.wantLate {
				t.Errorf("Late = %v, want %v", res.Late, tt.wantLate)
			}
			if (res.SubmittedAt != nil) != tt.wantAt {
				t.Errorf("SubmittedAt = %v, want set=%v", res.SubmittedAt, tt.wantAt)
			}
			if res.Confidence != tt.result.Confidence {
				t.Errorf("Confidence = %q, want %q", res.Confidence, tt.result.Confidence)
			}
		})
	}
}

func TestPayloadDropsDeliveryFields(t *testing.T) {
	r := Result{
		Student:      "sara",
		WebhookSent:  true,
		WebhookError: "boom",
		UploadError:  "bucket missing",
	}

	data, err := json.Marshal(r.Payload())
	if err != nil {
		t.Fatal(err)
	}
	for _, field := range []string{"webhook_sent", "webhook_error", "upload_error"} {
		if strings.Contains(string(data), field) {
			t.Errorf("payload should not contain %s: %s", field, data)
		}
	}
	if r.WebhookError != "boom" {
		t.Error("Payload must not modify the receiver")
	}
}
