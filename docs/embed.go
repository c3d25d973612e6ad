package docs

import (
	_ "embed"
)

// InvestigationGuide is sent to clients as the server instructions. It tells
// an agent how the crime graph is shaped and which tool answers which
// question.
//
//go:embed prompts/investigation_guide.md
var InvestigationGuide string
