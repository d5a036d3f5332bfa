package models

// FormatProfile is one entry of the static format knowledge base, keyed by
// canonical extension (".stp" resolves to ".step" before lookup). The
// profiles are loaded once at start and treated as read-only.
type FormatProfile struct {
	Extension       string        `json:"extension" yaml:"extension"`
	Label           string        `json:"label" yaml:"label"`
	GeometryClass   GeometryClass `json:"geometryClass" yaml:"geometry_class"`
	AuthoringTools  []string      `json:"authoringTools" yaml:"typical_authoring_tools"`
	CommonUseCases  []string      `json:"commonUseCases" yaml:"common_use_cases"`
	Survives        []BulletPoint `json:"survives" yaml:"survives"`
	Lost            []BulletPoint `json:"lost" yaml:"lost"`
	QuoteConfidence string        `json:"quoteConfidence" yaml:"dfm_quote_confidence"`
	RiskBaseline    string        `json:"riskBaseline" yaml:"quote_risk_baseline"`
	Automation      string        `json:"automation" yaml:"automation_friendliness"`
	Notes           []string      `json:"notes" yaml:"notes"`
	WhatThisIs      string        `json:"whatThisIs" yaml:"what_this_is"`
	Workflow        *WorkflowFlow `json:"workflow,omitempty" yaml:"workflow"`
}

// BulletPoint is a survives/lost item with an optional parenthetical note.
type BulletPoint struct {
	Item string `json:"item" yaml:"item"`
	Note string `json:"note,omitempty" yaml:"note"`
}

// WorkflowFlow describes the typical manufacturing path for a format and
// what usually goes wrong on that path.
type WorkflowFlow struct {
	Flow          string `json:"flow" yaml:"flow"`
	CommonFailure string `json:"commonFailure,omitempty" yaml:"common_failure"`
}

// MaterialProfile is one entry of the static material knowledge base.
type MaterialProfile struct {
	Name              string   `json:"name" yaml:"name"`
	Difficulty        string   `json:"difficulty" yaml:"difficulty"`
	MachiningReality  string   `json:"machiningReality" yaml:"machining_reality"`
	CostDrivers       []string `json:"costDrivers" yaml:"cost_drivers"`
	QuoteImplications []string `json:"quoteImplications" yaml:"quote_implications"`
}
