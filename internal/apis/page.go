package apis

import (
	"fmt"
	"strconv"
)

const DefaultPageSize = 6

// Page is the pagination window for one listing request. A page index past
// the last page, or an empty listing, collapses to an empty first page.
type Page struct {
	ItemCount   int  `json:"item_count"`
	PageSize    int  `json:"page_size"`
	PageIndex   int  `json:"page_index"`
	PageCount   int  `json:"page_count"`
	Offset      int  `json:"offset"`
	Limit       int  `json:"limit"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

func NewPage(itemCount, pageIndex, pageSize int) Page {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	p := Page{ItemCount: itemCount, PageSize: pageSize}
	p.PageCount = itemCount / pageSize
	if itemCount%pageSize > 0 {
		p.PageCount++
	}

	if itemCount == 0 || pageIndex > p.PageCount {
		p.PageIndex = 1
	} else {
		p.PageIndex = pageIndex
		p.Offset = pageSize * (pageIndex - 1)
		p.Limit = pageSize
	}

	p.HasNext = p.PageIndex < p.PageCount
	p.HasPrevious = p.PageIndex > 1
	return p
}

// Window is the (offset, count) pair for orm.FindOptions.Limit.
func (p Page) Window() [2]int {
	return [2]int{p.Offset, p.Limit}
}

func (p Page) String() string {
	return fmt.Sprintf("item_count: %d, page_count: %d, page_index: %d, page_size: %d, offset: %d, limit: %d",
		p.ItemCount, p.PageCount, p.PageIndex, p.PageSize, p.Offset, p.Limit)
}

// PageIndex parses a page query value. Anything unparsable or below 1 is 1.
func PageIndex(s string) int {
	p, err := strconv.Atoi(s)
	if err != nil || p < 1 {
		return 1
	}
	return p
}
