package extract

import (
	"fmt"
	"slices"

	"github.com/pfrederiksen/ffvb-results/internal/document"
	"github.com/pfrederiksen/ffvb-results/internal/entity"
)

// DecodeRegions reads region names from the header cells and pool links from
// the body lists, pairing them by position. Extra names or links beyond the
// shorter sequence are dropped.
func DecodeRegions(store *document.Store) ([]entity.Region, error) {
	names, err := store.Query(regionNameSelector, document.Text())
	if err != nil {
		return nil, fmt.Errorf("region names: %w", err)
	}

	pools, err := store.Query(regionPoolSelector, document.Href())
	if err != nil {
		return nil, fmt.Errorf("region pools: %w", err)
	}

	n := min(len(names), len(pools))
	regions := make([]entity.Region, 0, n)
	for i := range n {
		regions = append(regions, entity.Region{Name: names[i], URL: pools[i]})
	}

	return regions, nil
}

// DecodeDepartments narrows store to the link list under region's header
// cell and reads the departments from it. region must equal a header cell
// exactly. A list holding a single link is the region's own page: it yields
// one department named after the region.
//
// store is left narrowed to the region's list.
func DecodeDepartments(store *document.Store, region string) ([]entity.Department, error) {
	regions, err := store.Query(regionNameSelector, document.Text())
	if err != nil {
		return nil, fmt.Errorf("region names: %w", err)
	}

	index := slices.Index(regions, region)
	if index < 0 {
		return nil, fmt.Errorf("%w: %q", ErrRegionNotFound, region)
	}

	lists, err := store.Query(regionListSelector, document.Text())
	if err != nil {
		return nil, fmt.Errorf("department lists: %w", err)
	}
	if index >= len(lists) {
		return nil, fmt.Errorf("%w: region %q is column %d but the page has %d department lists",
			ErrStructuralMismatch, region, index, len(lists))
	}

	if err := store.Narrow(lists[index]); err != nil {
		return nil, fmt.Errorf("department list of %q: %w", region, err)
	}

	names, err := store.Query(listLinkSelector, document.Text())
	if err != nil {
		return nil, fmt.Errorf("department names: %w", err)
	}
	if len(names) == 1 {
		names = []string{region}
	}

	urls, err := store.Query(listLinkSelector, document.Href())
	if err != nil {
		return nil, fmt.Errorf("department urls: %w", err)
	}

	n := min(len(names), len(urls))
	departments := make([]entity.Department, 0, n)
	for i := range n {
		departments = append(departments, entity.Department{Name: names[i], URL: urls[i]})
	}

	return departments, nil
}
