// Package search implements the technology matching queries over the two
// heterogeneous technology CSV sources. The sources share no schema; only
// the name column is assumed, everything else is looked up missing-safe.
package search

import (
	"fmt"
	"sort"
	"strings"

	"github.com/innosearch-dev/innosearch/internal/csvstore"
	"github.com/innosearch-dev/innosearch/internal/domain"
	"github.com/innosearch-dev/innosearch/internal/errors"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	// NameHeader is the technology-name column, present in both sources.
	NameHeader = "기술명"

	// QuickSearchLimit caps the quick-search response size.
	QuickSearchLimit = 100
)

// subCategoryAliases resolves the subcategory column, whose exact header
// spelling varies by source. First present alias wins.
var subCategoryAliases = []string{
	"12대국가전략기술(소분류)",
	"소분류",
	"기술소분류",
}

var errKeywordRequired = &errors.ErrorWithStatusCode{
	Message: "검색 키워드를 입력해주세요.", StatusCode: 400,
}

var errCriteriaRequired = &errors.ErrorWithStatusCode{
	Message: "검색 조건을 입력해주세요.", StatusCode: 400,
}

type Engine struct {
	sources []*csvstore.Source // tech1 before tech2; order defines result blocks
}

func New(tech1, tech2 *csvstore.Source) *Engine {
	return &Engine{sources: []*csvstore.Source{tech1, tech2}}
}

// QuickSearch returns distinct technology names whose name contains the
// keyword, case-insensitively, across both sources. The returned slice is
// capped at QuickSearchLimit; total is the uncapped distinct count.
func (e *Engine) QuickSearch(keyword string) (names []string, total int, err error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, 0, errKeywordRequired
	}
	needle := strings.ToLower(keyword)

	seen := make(map[string]struct{})
	names = []string{}
	for _, src := range e.sources {
		records, err := src.Records()
		if err != nil {
			return nil, 0, err
		}
		for _, r := range records {
			name := strings.TrimSpace(r[NameHeader])
			if name == "" {
				continue
			}
			if !strings.Contains(strings.ToLower(name), needle) {
				continue
			}
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			if len(names) < QuickSearchLimit {
				names = append(names, name)
			}
		}
	}
	return names, len(seen), nil
}

// DetailedSearch filters conjunctively by name keyword (substring,
// case-insensitive) and/or exact subcategory. At least one criterion is
// required. Results are ordered by name with Korean collation, ties broken
// by source then ordinal.
func (e *Engine) DetailedSearch(keyword, subCategory string) ([]domain.TechMatch, error) {
	keyword = strings.TrimSpace(keyword)
	subCategory = strings.TrimSpace(subCategory)
	if keyword == "" && subCategory == "" {
		return nil, errCriteriaRequired
	}
	needle := strings.ToLower(keyword)

	type hit struct {
		match   domain.TechMatch
		srcRank int
		ordinal int
	}
	var hits []hit

	for rank, src := range e.sources {
		records, err := src.Records()
		if err != nil {
			return nil, err
		}
		subCatHeader := ""
		if subCategory != "" {
			headers, err := src.Headers()
			if err != nil {
				return nil, err
			}
			subCatHeader, _ = csvstore.ResolveHeader(headers, subCategoryAliases)
		}

		for ordinal, r := range records {
			name := strings.TrimSpace(r[NameHeader])
			if name == "" {
				continue // unsearchable without a name
			}
			if keyword != "" && !strings.Contains(strings.ToLower(name), needle) {
				continue
			}
			if subCategory != "" {
				if subCatHeader == "" || strings.TrimSpace(r[subCatHeader]) != subCategory {
					continue
				}
			}
			hits = append(hits, hit{
				match:   newMatch(src.Tag(), ordinal, name, r),
				srcRank: rank,
				ordinal: ordinal,
			})
		}
	}

	c := collate.New(language.Korean)
	sort.SliceStable(hits, func(i, j int) bool {
		if cmp := c.CompareString(hits[i].match.Name, hits[j].match.Name); cmp != 0 {
			return cmp < 0
		}
		if hits[i].srcRank != hits[j].srcRank {
			return hits[i].srcRank < hits[j].srcRank
		}
		return hits[i].ordinal < hits[j].ordinal
	})

	out := make([]domain.TechMatch, len(hits))
	for i, h := range hits {
		out[i] = h.match
	}
	return out, nil
}

// FindByName returns substring matches on the name, with exact
// case-insensitive matches promoted to the front of each source's block;
// the tech1 block precedes the tech2 block.
func (e *Engine) FindByName(name string) ([]domain.TechMatch, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errKeywordRequired
	}
	needle := strings.ToLower(name)

	var out []domain.TechMatch
	for _, src := range e.sources {
		records, err := src.Records()
		if err != nil {
			return nil, err
		}
		var exact, partial []domain.TechMatch
		for ordinal, r := range records {
			recName := strings.TrimSpace(r[NameHeader])
			if recName == "" {
				continue
			}
			lower := strings.ToLower(recName)
			switch {
			case lower == needle:
				exact = append(exact, newMatch(src.Tag(), ordinal, recName, r))
			case strings.Contains(lower, needle):
				partial = append(partial, newMatch(src.Tag(), ordinal, recName, r))
			}
		}
		out = append(out, exact...)
		out = append(out, partial...)
	}
	return out, nil
}

func newMatch(tag string, ordinal int, name string, fields csvstore.Record) domain.TechMatch {
	return domain.TechMatch{
		Id:     fmt.Sprintf("%s:%d", tag, ordinal),
		Name:   name,
		Source: tag,
		Fields: fields,
	}
}
