// Package graph implements the provider capability set against the
// Microsoft Graph calendar API.
//
// Unlike the Google adapter, which rides on the vendor SDK, this adapter
// speaks raw REST: Graph's query surface is OData ($filter, $top, $search,
// $orderby) and its event resource uses a pattern/range recurrence
// structure that the recurrence package translates to and from the
// canonical rule. Token lifecycle and error semantics are identical to the
// Google adapter.
package graph
