// Package httpapi exposes form sessions over net/http.
//
// Each browser gets its own engine, keyed by a uuid cookie. The handler serves
// a rendered page at the mount root and a JSON API under /api:
//
//	GET    /                          rendered page (HTML or text, by Accept)
//	GET    /api/schemas               registered form schemas
//	GET    /api/session               current snapshot
//	POST   /api/session/form          {"formType": "..."}
//	POST   /api/session/fields        {"name": "...", "value": "..."}
//	POST   /api/session/submit        200 submitted, 422 validation failed
//	POST   /api/entries/{pos}/recall  load an entry back into the form
//	DELETE /api/entries/{pos}         delete an entry
//
// The POST routes also accept urlencoded browser forms; those requests are
// answered with a redirect back to the page. A "_method" form value tunnels
// DELETE through a browser POST.
package httpapi
