// Package markdown turns a post body into folio's display tree and renders
// that tree to HTML.
//
// Parsing is delegated to goldmark. The goldmark AST is converted once into a
// small, closed set of node kinds (see Node) that carry everything the
// renderer needs, such as heading slugs and link kinds. Rendering dispatches
// on the node kind; adding a kind means extending the Node set and the
// renderer's switch together.
package markdown
