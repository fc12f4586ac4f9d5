package logfields

import (
	"log/slog"
	"testing"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"SequenceID", KeySequenceID, "abc", SequenceID("abc")},
		{"Trigger", KeyTrigger, "startup", Trigger("startup")},
		{"Step", KeyStep, "sync", Step("sync")},
		{"State", KeyState, "running", State("running")},
		{"Stream", KeyStream, "stdout", Stream("stdout")},
		{"Command", KeyCommand, "npm install", Command("npm install")},
		{"Path", KeyPath, "/tmp/x", Path("/tmp/x")},
		{"URL", KeyURL, "http://example", URL("http://example")},
		{"Branch", KeyBranch, "main", Branch("main")},
		{"Commit", KeyCommit, "deadbeef", Commit("deadbeef")},
		{"Version", KeyVersion, "1.2.3", Version("1.2.3")},
		{"Category", KeyCategory, "sync", Category("sync")},
	}

	for _, tc := range cases {
		if tc.attr.Key != tc.attrKey {
			// Key drift would break log ingestion schemas.
			t.Fatalf("%s: expected key %s, got %s", tc.name, tc.attrKey, tc.attr.Key)
		}
		if got := tc.attr.Value.String(); got != tc.attrVal {
			t.Fatalf("%s: expected value %s, got %v", tc.name, tc.attrVal, got)
		}
	}
}

// TestNumericHelpers verifies keys for numeric helpers.
func TestNumericHelpers(t *testing.T) {
	if v := PID(42); v.Key != KeyPID || v.Value.Int64() != 42 {
		t.Fatalf("PID mismatch: %v", v)
	}
	if v := ExitCode(1); v.Key != KeyExitCode || v.Value.Int64() != 1 {
		t.Fatalf("ExitCode mismatch: %v", v)
	}
	if v := DurationMS(12.5); v.Key != KeyDurationMS {
		t.Fatalf("DurationMS key mismatch: %s", v.Key)
	}
}

// TestErrorHelper ensures Error() handles nil and non-nil errors predictably.
func TestErrorHelper(t *testing.T) {
	attr := Error(nil)
	if attr.Key != KeyError {
		t.Fatalf("Error key mismatch: %s", attr.Key)
	}
	if attr.Value.String() != "" {
		t.Fatalf("Expected empty error string, got %s", attr.Value.String())
	}
	attr = Error(errTest{})
	if attr.Value.String() != "err-test" {
		t.Fatalf("Expected 'err-test', got %s", attr.Value.String())
	}
}

type errTest struct{}

func (e errTest) Error() string { return "err-test" }
