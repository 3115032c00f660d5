package events

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/innosearch-dev/innosearch/internal/csvstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDirectory(t *testing.T, content string) *Directory {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return New(csvstore.NewSource("events", path, "utf-8"))
}

// fixture with 12 대전 rows and 3 서울 rows; titles carry the 대전 ordinal
// so pagination windows are checkable.
func paginationFixture() string {
	var b strings.Builder
	b.WriteString("행사기간-시작일,행사명,행사장소,주관기관명,행사지역\n")
	for i := 1; i <= 12; i++ {
		fmt.Fprintf(&b, "2024-01-%02d,행사%02d,대전컨벤션센터,연구개발특구진흥재단,대전\n", i, i)
	}
	for i := 1; i <= 3; i++ {
		fmt.Fprintf(&b, "2024-02-%02d,서울행사%d,코엑스,서울시,서울\n", i, i)
	}
	return b.String()
}

func TestQuery_RegionPagination(t *testing.T) {
	d := newDirectory(t, paginationFixture())

	res, err := d.Query(Query{Region: "대전", Page: 2, PageSize: 5, Sort: "dateAsc"})
	require.NoError(t, err)

	assert.Equal(t, 12, res.TotalCount)
	assert.Equal(t, 3, res.TotalPages)
	require.Len(t, res.Rows, 5)
	// rows 6..10 of the filtered, date-ascending set
	assert.Equal(t, "행사06", res.Rows[0]["행사명"])
	assert.Equal(t, "행사10", res.Rows[4]["행사명"])
}

func TestQuery_AllRegionsSentinel(t *testing.T) {
	d := newDirectory(t, paginationFixture())

	for _, region := range []string{"", "all", "전체"} {
		res, err := d.Query(Query{Region: region})
		require.NoError(t, err)
		assert.Equal(t, 15, res.TotalCount)
		assert.Equal(t, AllRegions, res.Region)
	}
}

func TestQuery_RegionsDistinctSorted(t *testing.T) {
	d := newDirectory(t, paginationFixture())

	res, err := d.Query(Query{})
	require.NoError(t, err)
	assert.Equal(t, []string{"대전", "서울"}, res.Regions)
}

func TestQuery_TextFilter(t *testing.T) {
	d := newDirectory(t, paginationFixture())

	res, err := d.Query(Query{Text: "코엑스"})
	require.NoError(t, err)
	assert.Equal(t, 3, res.TotalCount)
}

func TestQuery_TitleSortDesc(t *testing.T) {
	d := newDirectory(t, paginationFixture())

	res, err := d.Query(Query{Region: "서울", Sort: "titleDesc"})
	require.NoError(t, err)
	require.Len(t, res.Rows, 3)
	assert.Equal(t, "서울행사3", res.Rows[0]["행사명"])
	assert.Equal(t, "서울행사1", res.Rows[2]["행사명"])
}

func TestQuery_UnparsableDateSortsEarliest(t *testing.T) {
	d := newDirectory(t, "행사기간-시작일,행사명,행사지역\n"+
		"2024-05-01,늦은행사,대전\n"+
		"미정,날짜없는행사,대전\n"+
		"2024.1.2,이른행사,대전\n")

	res, err := d.Query(Query{Sort: "dateAsc"})
	require.NoError(t, err)
	require.Len(t, res.Rows, 3)
	assert.Equal(t, "날짜없는행사", res.Rows[0]["행사명"])
	assert.Equal(t, "이른행사", res.Rows[1]["행사명"])
	assert.Equal(t, "늦은행사", res.Rows[2]["행사명"])

	res, err = d.Query(Query{Sort: "dateDesc"})
	require.NoError(t, err)
	assert.Equal(t, "날짜없는행사", res.Rows[2]["행사명"])
}

func TestQuery_PageSizeClamped(t *testing.T) {
	d := newDirectory(t, paginationFixture())

	res, err := d.Query(Query{PageSize: 1})
	require.NoError(t, err)
	assert.Equal(t, 5, res.PageSize)

	res, err = d.Query(Query{PageSize: 10000})
	require.NoError(t, err)
	assert.Equal(t, 200, res.PageSize)

	res, err = d.Query(Query{})
	require.NoError(t, err)
	assert.Equal(t, DefaultPageSize, res.PageSize)
}

func TestQuery_PagePastEndIsEmpty(t *testing.T) {
	d := newDirectory(t, paginationFixture())

	res, err := d.Query(Query{Page: 99, PageSize: 5})
	require.NoError(t, err)
	assert.Empty(t, res.Rows)
	assert.Equal(t, 3, res.TotalPages)
}

func TestQuery_EmptyResultHasOnePage(t *testing.T) {
	d := newDirectory(t, paginationFixture())

	res, err := d.Query(Query{Region: "부산"})
	require.NoError(t, err)
	assert.Equal(t, 0, res.TotalCount)
	assert.Equal(t, 1, res.TotalPages)
}

func TestQuery_RowsProjectedToDisplayColumns(t *testing.T) {
	d := newDirectory(t, "행사기간-시작일,행사명,행사장소,주관기관명,행사지역,내부메모\n"+
		"2024-01-01,행사,장소,기관,대전,비공개\n")

	res, err := d.Query(Query{})
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.NotContains(t, res.Rows[0], "내부메모")
	assert.Equal(t, []string{"행사기간-시작일", "행사명", "행사장소", "주관기관명", "행사지역"}, res.Headers)
}

func TestParseDate(t *testing.T) {
	testCases := []struct {
		in   string
		want time.Time
	}{
		{"2024-03-01", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"2024.3.1", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"2024. 03. 01", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"2024/12/31(화)", time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)},
		{"미정", time.Time{}},
		{"", time.Time{}},
		{"2024-13-01", time.Time{}},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, parseDate(tc.in))
		})
	}
}
