// Package catalog persists articles and authors in Pebble keyed by their
// snowflake ids.
//
// Keys are byte-wise sortable:
//
//	article/{id_be8}
//	author/{id_be8}
//
// Since ids lead with their timestamp, iterating the article prefix yields
// articles in creation order, which is what List pages over.
package catalog
