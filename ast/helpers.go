package ast

// EmitHelper is a runtime function that lowered code may depend on.
type EmitHelper struct {
	Name string
	Text string
}

// AssignHelperName is the merge helper called by object-spread lowering.
const AssignHelperName = "__assign"

var helpers = map[string]EmitHelper{
	AssignHelperName: {
		Name: AssignHelperName,
		Text: `var __assign = (this && this.__assign) || Object.assign || function(t) {
    for (var s, i = 1, n = arguments.length; i < n; i++) {
        s = arguments[i];
        for (var p in s) if (Object.prototype.hasOwnProperty.call(s, p))
            t[p] = s[p];
    }
    return t;
};`,
	},
}

// LookupHelper returns the helper registered under name.
func LookupHelper(name string) (EmitHelper, bool) {
	h, ok := helpers[name]
	return h, ok
}
