// Package markup turns htx markup into a live element tree.
//
// Parsing is purely structural: any well-formed tag/attribute/children
// document is accepted and unknown tags are ordinary nodes. Rendering walks
// the nodes depth-first in document order and, for each element:
//
//  1. assigns its identity (the name attribute, or "<tag>-<random>"),
//  2. links it to the enclosing element's identity,
//  3. replaces "$key" attribute values from the task data,
//  4. overlays the prior values recorded for that identity,
//  5. mounts it through the registry, or keeps it as a native passthrough
//     when the tag is not registered,
//  6. recurses into the children.
//
// Elements with a name keep their identity across renders, which is what
// lets prior answers and cross-widget lookups find them again.
package markup
