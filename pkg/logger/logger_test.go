package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]struct {
		in      string
		want    logrus.Level
		wantErr bool
	}{
		"empty":   {in: "", want: logrus.InfoLevel},
		"debug":   {in: "debug", want: logrus.DebugLevel},
		"warn":    {in: " warn ", want: logrus.WarnLevel},
		"garbage": {in: "loud", want: logrus.InfoLevel, wantErr: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseLevel(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestForAddsComponentField(t *testing.T) {
	var buf bytes.Buffer
	if err := Setup("info", "json", &buf); err != nil {
		t.Fatalf("Setup() error: %v", err)
	}
	t.Cleanup(func() { _ = Setup("info", "text", nil) })

	For("ban").Info("hello")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line is not json: %v (%q)", err, buf.String())
	}
	if line["component"] != "ban" {
		t.Errorf("component = %v, want ban", line["component"])
	}
	if line["msg"] != "hello" {
		t.Errorf("msg = %v, want hello", line["msg"])
	}
}

func TestSetupRejectsUnknownFormat(t *testing.T) {
	if err := Setup("info", "xml", nil); err == nil {
		t.Fatal("Setup() with format xml should fail")
	}
}
