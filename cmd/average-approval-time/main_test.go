package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	approvaltime "loan-approval-metrics/internal/service/approval_time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "mixed records", input: `[{"approval_time": 10}, {"approval_time": 30.5}, {"loanId": 3}]`, want: "20.25\n"},
		{name: "empty array", input: `[]`, want: "0.00\n"},
		{name: "no approval times", input: `[{"loanId": 1}, {"loanId": 2}]`, want: "0.00\n"},
		{name: "null is skipped", input: `[{"approval_time": null}, {"approval_time": 4}]`, want: "4.00\n"},
		{name: "zero is counted", input: `[{"approval_time": 0}, {"approval_time": 3}]`, want: "1.50\n"},
		{name: "string value", input: `[{"approval_time": "12"}]`, wantErr: true},
		{name: "negative value", input: `[{"approval_time": -1}]`, wantErr: true},
		{name: "not an array", input: `{"approval_time": 1}`, wantErr: true},
		{name: "truncated", input: `[{"approval_time": 1}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer

			err := run([]string{"-"}, strings.NewReader(tt.input), &out)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Empty(t, out.String())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestRun_InvalidRecordIndex(t *testing.T) {
	var out bytes.Buffer

	err := run([]string{"-"}, strings.NewReader(`[{"approval_time": 1}, {"approval_time": true}]`), &out)

	var invalid *approvaltime.InvalidRecordError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, 1, invalid.Index)
}

func TestRun_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loans.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"approval_time": 4}, {"approval_time": 8}]`), 0o600))

	var out bytes.Buffer
	require.NoError(t, run([]string{path}, nil, &out))
	assert.Equal(t, "6.00\n", out.String())
}

func TestRun_Usage(t *testing.T) {
	var out bytes.Buffer

	assert.ErrorIs(t, run(nil, nil, &out), errUsage)
	assert.ErrorIs(t, run([]string{"a.json", "b.json"}, nil, &out), errUsage)
	assert.Error(t, run([]string{filepath.Join(t.TempDir(), "missing.json")}, nil, &out))
}
