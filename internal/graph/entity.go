package graph

// Entity is a code construct declared directly in one source file, before
// merging and resolution. Qualified names follow the dotted-path convention:
// module, module.Class, module.function, module.Class.method.
type Entity struct {
	Kind          NodeKind
	Name          string
	QualifiedName string
	Parent        string // qualified name of the enclosing entity, empty for modules
	File          string
	LineStart     int
	LineEnd       int
}

// Mention is an unresolved textual reference discovered during parsing:
// an import, a call, or an inheritance relation whose target has not yet
// been matched against the set of known entities.
type Mention struct {
	Kind   EdgeKind
	Source string // qualified name of the mentioning entity
	Module string // qualified name of the mentioning file's module
	Target string // textual target: bare name or dotted attribute chain
	Line   int
}

// FileResult is the output of parsing a single source file.
type FileResult struct {
	Path     string
	Module   string // qualified name of the file's module entity
	Entities []Entity
	Mentions []Mention
}
