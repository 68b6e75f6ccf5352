package importer

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"building-registry/internal/model"
	"building-registry/internal/sheet"
)

func TestReadCSV(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		headers  []string
		rows     []Row
		errMatch string
	}{
		{
			name:    "Minimal",
			input:   "건물명,위치\n샘플빌,마곡",
			headers: []string{"건물명", "위치"},
			rows:    []Row{{"건물명": "샘플빌", "위치": "마곡"}},
		},
		{
			name:    "BOM quotes and CRLF",
			input:   "\ufeff\"건물명\",\"지번\"\r\n\"가나빌, 본관\",\"마곡동 \"\"1\"\"\"\r\n",
			headers: []string{"건물명", "지번"},
			rows:    []Row{{"건물명": "가나빌, 본관", "지번": `마곡동 "1"`}},
		},
		{
			name:    "Blank lines skipped",
			input:   "건물명,층수\n\n가나빌,5\n , \n나루빌,7\n",
			headers: []string{"건물명", "층수"},
			rows:    []Row{{"건물명": "가나빌", "층수": "5"}, {"건물명": "나루빌", "층수": "7"}},
		},
		{
			name:    "Short row",
			input:   "건물명,위치,유형\n가나빌",
			headers: []string{"건물명", "위치", "유형"},
			rows:    []Row{{"건물명": "가나빌", "위치": "", "유형": ""}},
		},
		{
			name:     "Header only",
			input:    "건물명,위치\n",
			errMatch: "CSV 파일이 비어있습니다",
		},
		{
			name:     "Empty",
			input:    "",
			errMatch: "CSV 파일이 비어있습니다",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			doc, err := ReadCSV(strings.NewReader(tc.input))
			if tc.errMatch != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrValidationFailed)
				assert.Contains(t, err.Error(), tc.errMatch)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.headers, doc.Headers)
			assert.Equal(t, tc.rows, doc.Rows)
		})
	}
}

func TestDocument_Require(t *testing.T) {
	doc, err := ReadCSV(strings.NewReader("위치,유형\n마곡,아파트"))
	require.NoError(t, err)

	err = doc.Require("건물명")
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"필수 컬럼이 없습니다: 건물명 (실제 컬럼: 위치, 유형)"}, verr.Errors)

	assert.NoError(t, doc.Require("위치"))
}

func TestRead_XLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sheet.WriteBuildings(&buf, []model.Building{{Name: "가나빌", Floors: 3, Location: "마곡"}}))

	doc, err := Read("buildings.XLSX", &buf)
	require.NoError(t, err)
	require.Len(t, doc.Rows, 1)
	assert.Equal(t, "가나빌", doc.Rows[0].Get("건물명"))
	assert.Equal(t, "3", doc.Rows[0].Get("층수"))
}

func TestRead_XLSXWithOnlyHeaders(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sheet.WriteBuildings(&buf, nil))

	_, err := Read("empty.xlsx", &buf)
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.Contains(t, err.Error(), "엑셀 파일이 비어있습니다")
}
