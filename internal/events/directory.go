// Package events serves the events listing: filter, sort and paginate the
// event CSV rows, projecting a fixed display-column subset.
package events

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/innosearch-dev/innosearch/internal/csvstore"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// AllRegions is the "no region filter" sentinel. Empty and "all" are
// accepted as synonyms for clients that don't speak Korean defaults.
const AllRegions = "전체"

const (
	DefaultPageSize = 20
	minPageSize     = 5
	maxPageSize     = 200
)

// Display-column alias lists, resolved per query against the live header
// set. First present alias wins.
var columnAliases = map[string][]string{
	"dateStart": {"행사기간-시작일", "시작일", "일자", "Date", "date"},
	"title":     {"행사명", "제목", "Title", "title"},
	"venue":     {"행사장소", "장소", "Venue", "venue"},
	"org":       {"주관기관명", "주최", "주관", "Organizer", "organizer"},
	"region":    {"행사지역", "특구", "지역", "Region", "region"},
}

type Query struct {
	Region   string
	Page     int
	PageSize int
	Sort     string // dateAsc (default), dateDesc, titleAsc, titleDesc
	Text     string // free-text, matches any field case-insensitively
}

type Result struct {
	Headers    []string          `json:"headers"` // projected display columns, in order
	Regions    []string          `json:"regions"` // distinct regions, collation-sorted
	Region     string            `json:"region"`
	Sort       string            `json:"sort"`
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
	TotalCount int               `json:"totalCount"`
	TotalPages int               `json:"totalPages"`
	Rows       []csvstore.Record `json:"rows"`
}

type Directory struct {
	src *csvstore.Source
}

func New(src *csvstore.Source) *Directory {
	return &Directory{src: src}
}

func (d *Directory) Query(q Query) (*Result, error) {
	records, err := d.src.Records()
	if err != nil {
		return nil, err
	}
	headers, err := d.src.Headers()
	if err != nil {
		return nil, err
	}

	cols := resolveColumns(headers)

	region := strings.TrimSpace(q.Region)
	if region == "" || region == "all" {
		region = AllRegions
	}
	text := strings.ToLower(strings.TrimSpace(q.Text))

	filtered := make([]csvstore.Record, 0, len(records))
	for _, r := range records {
		if region != AllRegions && strings.TrimSpace(r[cols["region"]]) != region {
			continue
		}
		if text != "" && !anyFieldContains(r, text) {
			continue
		}
		filtered = append(filtered, r)
	}

	sortRows(filtered, cols, q.Sort)

	page := q.Page
	if page < 1 {
		page = 1
	}
	pageSize := q.PageSize
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}
	if pageSize < minPageSize {
		pageSize = minPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	totalCount := len(filtered)
	totalPages := (totalCount + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	start := (page - 1) * pageSize
	if start > totalCount {
		start = totalCount
	}
	end := start + pageSize
	if end > totalCount {
		end = totalCount
	}

	viewHeaders := projectedHeaders(cols)
	rows := make([]csvstore.Record, 0, end-start)
	for _, r := range filtered[start:end] {
		slim := make(csvstore.Record, len(viewHeaders))
		for _, h := range viewHeaders {
			slim[h] = r[h]
		}
		rows = append(rows, slim)
	}

	sortKey := q.Sort
	if sortKey == "" {
		sortKey = "dateAsc"
	}

	return &Result{
		Headers:    viewHeaders,
		Regions:    distinctRegions(records, cols["region"]),
		Region:     region,
		Sort:       sortKey,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
		Rows:       rows,
	}, nil
}

func resolveColumns(headers []string) map[string]string {
	cols := make(map[string]string, len(columnAliases))
	for key, aliases := range columnAliases {
		if h, ok := csvstore.ResolveHeader(headers, aliases); ok {
			cols[key] = h
		}
	}
	// the listing is unusable without title/region; fall back to the
	// first two file columns like the original data did
	if cols["title"] == "" && len(headers) > 0 {
		cols["title"] = headers[0]
	}
	if cols["region"] == "" && len(headers) > 1 {
		cols["region"] = headers[1]
	}
	return cols
}

func projectedHeaders(cols map[string]string) []string {
	var out []string
	for _, key := range []string{"dateStart", "title", "venue", "org", "region"} {
		if h := cols[key]; h != "" {
			out = append(out, h)
		}
	}
	return out
}

func anyFieldContains(r csvstore.Record, needle string) bool {
	for _, v := range r {
		if strings.Contains(strings.ToLower(v), needle) {
			return true
		}
	}
	return false
}

func distinctRegions(records []csvstore.Record, regionCol string) []string {
	if regionCol == "" {
		return []string{}
	}
	seen := make(map[string]struct{})
	regions := []string{}
	for _, r := range records {
		region := strings.TrimSpace(r[regionCol])
		if region == "" {
			continue
		}
		if _, ok := seen[region]; ok {
			continue
		}
		seen[region] = struct{}{}
		regions = append(regions, region)
	}
	c := collate.New(language.Korean)
	sort.Slice(regions, func(i, j int) bool {
		return c.CompareString(regions[i], regions[j]) < 0
	})
	return regions
}

func sortRows(rows []csvstore.Record, cols map[string]string, sortKey string) {
	dateCol := cols["dateStart"]
	titleCol := cols["title"]

	switch sortKey {
	case "", "dateAsc", "dateDesc":
		if dateCol == "" {
			return
		}
		desc := sortKey == "dateDesc"
		sort.SliceStable(rows, func(i, j int) bool {
			// unparsable dates collapse to time zero and sort earliest
			a := parseDate(rows[i][dateCol])
			b := parseDate(rows[j][dateCol])
			if desc {
				return a.After(b)
			}
			return a.Before(b)
		})
	case "titleAsc", "titleDesc":
		if titleCol == "" {
			return
		}
		desc := sortKey == "titleDesc"
		c := collate.New(language.Korean)
		sort.SliceStable(rows, func(i, j int) bool {
			cmp := c.CompareString(rows[i][titleCol], rows[j][titleCol])
			if desc {
				return cmp > 0
			}
			return cmp < 0
		})
	}
}

var (
	dateRe    = regexp.MustCompile(`(\d{4})-(\d{1,2})-(\d{1,2})`)
	nonDateRe = regexp.MustCompile(`[^0-9-]`)
	dashRunRe = regexp.MustCompile(`-+`)
)

// parseDate best-effort parses dates written as 2024-03-01, 2024.3.1,
// "2024. 03. 01" and similar. Anything unparsable becomes time zero.
func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t := strings.NewReplacer(".", "-", " ", "-", "/", "-").Replace(s)
	t = nonDateRe.ReplaceAllString(t, "")
	t = dashRunRe.ReplaceAllString(t, "-")
	m := dateRe.FindStringSubmatch(t)
	if m == nil {
		return time.Time{}
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}
