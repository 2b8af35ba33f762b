package logx_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"coffer_scanner/pkg/logx"
)

func TestSensitiveDataMaskerMask(t *testing.T) {
	rq := require.New(t)

	masker := logx.NewSensitiveDataMasker()

	testCases := []struct {
		name   string
		input  []byte
		output []byte
	}{
		{
			name:   "Password",
			input:  []byte(`{"user":"coffer","password":"abc123"}`),
			output: []byte(`{"user":"coffer","password":"[MASKED]"}`),
		},
		{
			name:   "Token capital letter",
			input:  []byte(`{"pathname":"items-2026-10-18.json","Token":"vercel_blob_rw_abc"}`),
			output: []byte(`{"pathname":"items-2026-10-18.json","Token":"[MASKED]"}`),
		},
		{
			name:   "Bearer header",
			input:  []byte("PUT /items.json HTTP/1.1\r\nAuthorization: Bearer vercel_blob_rw_abc\r\nHost: blob\r\n"),
			output: []byte("PUT /items.json HTTP/1.1\r\nAuthorization: Bearer [MASKED]\r\nHost: blob\r\n"),
		},
		{
			name:   "Nothing to mask",
			input:  []byte(`{"item":{"current":{"price":"61.6m"}}}`),
			output: []byte(`{"item":{"current":{"price":"61.6m"}}}`),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			output := masker.Mask(tc.input)

			rq.Equal(tc.output, output, "%s vs %s", tc.output, output)
		})
	}
}
