package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/saladlab/consult-tags/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSheets(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"2024-05 상담데이터.csv": "id,name,tags\n1,Acme,\"리뷰/요청사항, 업셀/기능문의\"\n2,Beta,푸시/도입문의\n",
		"2024-06 상담데이터.csv": "id,name,tags\n1,Acme,리뷰/요청사항\n2,Acme,리뷰/요청사항\n3,Beta,단순문의\n",
		"notes.csv":          "id,name,tags\n1,Acme,리뷰/요청사항\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "consult dev")
}

func TestSheetsCmd(t *testing.T) {
	dir := writeSheets(t)

	tests := []struct {
		name string
		want []string
		args []string
	}{
		{
			name: "consultation tabs newest first",
			args: []string{"sheets", "--data-dir", dir, "--format", "json"},
			want: []string{"2024-06 상담데이터", "2024-05 상담데이터"},
		},
		{
			name: "all tabs",
			args: []string{"sheets", "--all", "--data-dir", dir, "--format", "json"},
			want: []string{"2024-05 상담데이터", "2024-06 상담데이터", "notes"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			require.NoError(t, err)

			var infos []struct {
				Title string `json:"title"`
			}
			require.NoError(t, json.Unmarshal([]byte(out), &infos))
			titles := make([]string, 0, len(infos))
			for _, info := range infos {
				titles = append(titles, info.Title)
			}
			assert.Equal(t, tt.want, titles)
		})
	}
}

func TestAnalyzeCmd(t *testing.T) {
	dir := writeSheets(t)

	tests := []struct {
		check   func(t *testing.T, out string)
		name    string
		errIs   error
		args    []string
		wantErr bool
	}{
		{
			name: "table output",
			args: []string{"analyze", "2024-06 상담데이터", "--data-dir", dir},
			check: func(t *testing.T, out string) {
				t.Helper()
				assert.Contains(t, out, "총 상담 3건")
			},
		},
		{
			name: "json output",
			args: []string{"analyze", "2024-05 상담데이터", "--data-dir", dir, "-f", "json"},
			check: func(t *testing.T, out string) {
				t.Helper()
				var got map[string]any
				require.NoError(t, json.Unmarshal([]byte(out), &got))
				assert.Equal(t, "2024-05 상담데이터", got["sheet"])
				assert.Contains(t, got, "category_counts")
				assert.Contains(t, got, "company_stats")
			},
		},
		{
			name: "yaml output",
			args: []string{"analyze", "2024-05 상담데이터", "--data-dir", dir, "-f", "yaml"},
			check: func(t *testing.T, out string) {
				t.Helper()
				assert.Contains(t, out, "sheet:")
				assert.Contains(t, out, "2024-05 상담데이터")
			},
		},
		{
			name:    "unknown format",
			args:    []string{"analyze", "2024-05 상담데이터", "--data-dir", dir, "-f", "xml"},
			wantErr: true,
			errIs:   common.ErrInvalidConfig,
		},
		{
			name:    "bad chart layout",
			args:    []string{"analyze", "2024-05 상담데이터", "--data-dir", dir, "--chart-start-row", "0"},
			wantErr: true,
			errIs:   common.ErrInvalidConfig,
		},
		{
			name:    "unknown sheet",
			args:    []string{"analyze", "2024-01 상담데이터", "--data-dir", dir},
			wantErr: true,
			errIs:   common.ErrSheetNotFound,
		},
		{
			name:    "missing argument",
			args:    []string{"analyze", "--data-dir", dir},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errIs != nil {
					assert.ErrorIs(t, err, tt.errIs)
				}
				return
			}
			require.NoError(t, err)
			tt.check(t, out)
		})
	}
}

func TestAnalyzeCmd_UnknownSheetListsTabs(t *testing.T) {
	dir := writeSheets(t)

	_, err := execute(t, "analyze", "2024-01 상담데이터", "--data-dir", dir)
	var userErr *common.UserError
	require.True(t, errors.As(err, &userErr))
	assert.Contains(t, userErr.UserMessage, "2024-06 상담데이터, 2024-05 상담데이터")
}

func TestAnalyzeCmd_WriteNeedsSheets(t *testing.T) {
	dir := writeSheets(t)

	_, err := execute(t, "analyze", "2024-05 상담데이터", "--data-dir", dir, "--charts")
	var userErr *common.UserError
	require.True(t, errors.As(err, &userErr))
	assert.Contains(t, userErr.UserMessage, "--data-dir")
}

func TestCompareCmd(t *testing.T) {
	dir := writeSheets(t)

	out, err := execute(t, "compare", "2024-05 상담데이터", "2024-06 상담데이터",
		"--data-dir", dir, "--no-progress", "-f", "json")
	require.NoError(t, err)

	var got struct {
		Sheets []string `json:"sheets"`
		Totals []struct {
			Delta *int   `json:"delta"`
			Sheet string `json:"sheet"`
			Count int    `json:"count"`
		} `json:"totals"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, []string{"2024-05 상담데이터", "2024-06 상담데이터"}, got.Sheets)
	require.Len(t, got.Totals, 2)
	assert.Equal(t, 2, got.Totals[0].Count)
	assert.Nil(t, got.Totals[0].Delta)
	require.NotNil(t, got.Totals[1].Delta)
	assert.Equal(t, 1, *got.Totals[1].Delta)
}

func TestCompareCmd_NeedsTwoSheets(t *testing.T) {
	dir := writeSheets(t)

	_, err := execute(t, "compare", "2024-05 상담데이터", "--data-dir", dir)
	require.Error(t, err)
}

func TestSheetsConfigMissing(t *testing.T) {
	for _, env := range []string{
		"GOOGLE_SHEETS_CLIENT_ID", "GOOGLE_SHEETS_CLIENT_SECRET", "GOOGLE_SHEETS_REFRESH_TOKEN",
		"GOOGLE_SHEETS_TOKEN_FILE", "GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH", "GOOGLE_APPLICATION_CREDENTIALS",
		"SPREADSHEET_ID", "GOOGLE_SHEETS_SPREADSHEET_ID",
	} {
		t.Setenv(env, "")
	}

	_, err := execute(t, "sheets")
	var userErr *common.UserError
	require.True(t, errors.As(err, &userErr))
	assert.Contains(t, userErr.UserMessage, "not configured")
	assert.ErrorIs(t, err, common.ErrMissingConfig)
}
