// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

/*
Package search builds event search queries and pages through results.

Filters are chosen from fixed option lists. Categories and prices carry an
"all" option (全部) that is mutually exclusive with the specific options;
time tags are free combinations that merge into a single start/end window
evaluated in the Asia/Taipei timezone.

The Paginator owns one search session. Search replaces the result list
with the first page of a new query, More appends the next page. A newer
Search cancels whatever is still in flight, and results of superseded
requests are dropped by generation. Every page is held for a minimum
loading time so the client spinner never flashes.

Example:

	p := search.NewPaginator(client, cfg.Search, search.WithUpdates(func(s search.State) {
	    send(s)
	}))
	defer p.Close()

	p.Search(search.Query{Categories: []string{"展覽"}, Prices: []string{"免費"}})
	p.More()
*/
package search
