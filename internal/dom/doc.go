// Package dom turns fetched HTML into a navigable tree and finds tags in it.
//
// Lookups are driven by a typed Query: a tag name plus ordered attribute
// filters. Find treats a missing tag as a normal outcome, while Require
// treats it as a broken page structure and returns a *StructuralError.
//
//	doc := dom.Parse(body)
//	section, err := doc.Require(dom.Tag("section").ID("index-by-category"))
//	if err != nil {
//	    return nil, err
//	}
//	for _, a := range section.FindAll(dom.Tag("a").Class("pep reference internal")) {
//	    ...
//	}
package dom
