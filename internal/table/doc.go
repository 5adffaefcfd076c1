// Package table implements a generic in-memory tabular view over a fully
// materialized dataset.
//
// An Engine is parameterized by a record type T and two declarative schemas:
// the columns to display and the filters to query by. Every state change
// (filter edit, sort request, page move) re-derives the visible rows through
// three pure stages:
//
//	raw rows -> FilterRows -> SortRows -> Paginate -> visible page
//
// Fields are reached through named accessors registered in Schema.Fields, so
// a column or filter key that names no field is rejected by New rather than
// failing at render time. Filters whose key is synthetic (for example a
// range bound such as "amountMin") must supply a Predicate.
//
// Select filters treat the empty string and the "all" sentinel as "no
// constraint". Other kinds only treat the empty string that way.
//
// An Engine is owned by a single caller and is not safe for concurrent use.
package table
