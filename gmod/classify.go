package gmod

import "strings"

// Static classifiers operate on NodeMetadata alone (spec.md §4.C "static
// classifiers"), independent of graph position.

// IsLeafNode reports whether the node terminates a branch: its full type is
// one of the two closed leaf forms.
func IsLeafNode(m NodeMetadata) bool {
	return m.FullType == "ASSET FUNCTION LEAF" || m.FullType == "PRODUCT FUNCTION LEAF"
}

// IsFunctionNode reports whether the node belongs to the functional
// decomposition of the vessel rather than being a product or asset node
// itself.
func IsFunctionNode(m NodeMetadata) bool {
	return m.Category != "PRODUCT" && m.Category != "ASSET"
}

// IsFunctionComposition reports whether the node is an intermediate function
// node, one that groups other function or product nodes rather than
// terminating the branch.
func IsFunctionComposition(m NodeMetadata) bool {
	return IsFunctionNode(m) && !IsLeafNode(m)
}

// IsAssetFunctionNode reports whether the node's category is the compound
// "ASSET FUNCTION" category.
func IsAssetFunctionNode(m NodeMetadata) bool {
	return m.Category == "ASSET FUNCTION"
}

// IsAsset reports whether the node represents a physical asset.
func IsAsset(m NodeMetadata) bool {
	return m.Category == "ASSET"
}

// IsProductType reports whether the node's full type is "PRODUCT TYPE".
func IsProductType(m NodeMetadata) bool {
	return m.FullType == "PRODUCT TYPE"
}

// IsProductSelection reports whether the node's full type is
// "PRODUCT SELECTION".
func IsProductSelection(m NodeMetadata) bool {
	return m.FullType == "PRODUCT SELECTION"
}

// IsPotentialParent reports whether a node of the given type may parent an
// individualizable set: selection, group, and leaf nodes close a branch and
// so may sit above an individualizable child.
func IsPotentialParent(typ string) bool {
	switch typ {
	case "SELECTION", "GROUP", "LEAF":
		return true
	default:
		return false
	}
}

// IsProductTypeAssignment reports whether child is a product-type node
// assigned under a parent whose category contains "FUNCTION" (spec.md
// §4.C).
func IsProductTypeAssignment(parent, child *Node) bool {
	if parent == nil || child == nil {
		return false
	}
	return strings.Contains(parent.metadata.Category, "FUNCTION") && IsProductType(child.metadata)
}

// IsProductSelectionAssignment reports whether child is a product-selection
// node assigned under a parent whose category contains "FUNCTION".
func IsProductSelectionAssignment(parent, child *Node) bool {
	if parent == nil || child == nil {
		return false
	}
	return strings.Contains(parent.metadata.Category, "FUNCTION") && IsProductSelection(child.metadata)
}
