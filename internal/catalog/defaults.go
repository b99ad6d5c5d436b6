package catalog

// DefaultTradeTable returns the built-in trade classification table. A
// catalog file can extend or replace individual profiles; trades absent
// from the table are treated as unrecognized and skip category-conditional
// checks.
func DefaultTradeTable() *TradeTable {
	return NewTradeTable(defaultTradeProfiles)
}

var defaultTradeProfiles = []TradeProfile{
	{
		Name:       "roofing",
		Categories: []TradeCategory{CategoryExterior},
		ExclusionPhrases: []string{
			"no roofing",
			"roofing excluded",
			"excluding roofing",
			"roofing operations excluded",
			"excludes roofing",
		},
		CodeRanges: []CodeRange{{From: 5550, To: 5553}},
	},
	{
		Name:       "framing",
		Categories: []TradeCategory{CategoryExterior},
		ExclusionPhrases: []string{
			"no framing",
			"framing excluded",
			"excluding framing",
			"no structural carpentry",
		},
		CodeRanges: []CodeRange{{From: 5403, To: 5403}, {From: 5645, To: 5645}},
	},
	{
		Name:       "carpentry",
		ExclusionPhrases: []string{
			"no carpentry",
			"carpentry excluded",
			"excluding carpentry",
		},
		CodeRanges: []CodeRange{{From: 5403, To: 5403}, {From: 5437, To: 5437}},
	},
	{
		Name:       "siding",
		Categories: []TradeCategory{CategoryExterior},
		ExclusionPhrases: []string{
			"no siding",
			"siding excluded",
			"excluding siding",
		},
		CodeRanges: []CodeRange{{From: 5645, To: 5645}},
	},
	{
		Name:       "masonry",
		Categories: []TradeCategory{CategoryExterior},
		ExclusionPhrases: []string{
			"no masonry",
			"masonry excluded",
			"excluding masonry",
			"no brick work",
		},
		CodeRanges: []CodeRange{{From: 5022, To: 5022}},
	},
	{
		Name:       "glazing",
		Categories: []TradeCategory{CategoryExterior},
		ExclusionPhrases: []string{
			"no glazing",
			"glazing excluded",
			"no glass installation",
		},
		CodeRanges: []CodeRange{{From: 5462, To: 5462}},
	},
	{
		Name:       "waterproofing",
		Categories: []TradeCategory{CategoryExterior},
		ExclusionPhrases: []string{
			"no waterproofing",
			"waterproofing excluded",
			"excluding waterproofing",
		},
		CodeRanges: []CodeRange{{From: 5480, To: 5480}},
	},
	{
		Name:       "scaffolding",
		Categories: []TradeCategory{CategoryExterior},
		ExclusionPhrases: []string{
			"no scaffolding",
			"scaffolding excluded",
			"no exterior hoists",
		},
		CodeRanges: []CodeRange{{From: 5057, To: 5057}},
	},
	{
		Name:       "steel erection",
		Categories: []TradeCategory{CategoryExterior},
		ExclusionPhrases: []string{
			"no steel erection",
			"steel erection excluded",
			"no structural steel",
		},
		CodeRanges: []CodeRange{{From: 5040, To: 5059}},
	},
	{
		Name:       "excavation",
		Categories: []TradeCategory{CategoryGroundStructural},
		ExclusionPhrases: []string{
			"no excavation",
			"excavation excluded",
			"excluding excavation",
			"no earth movement",
		},
		CodeRanges: []CodeRange{{From: 6217, To: 6217}},
	},
	{
		Name:       "grading",
		Categories: []TradeCategory{CategoryGroundStructural},
		ExclusionPhrases: []string{
			"no grading",
			"grading excluded",
		},
		CodeRanges: []CodeRange{{From: 6217, To: 6217}},
	},
	{
		Name:       "foundation",
		Categories: []TradeCategory{CategoryGroundStructural},
		ExclusionPhrases: []string{
			"no foundation work",
			"foundation work excluded",
			"excluding foundations",
		},
		CodeRanges: []CodeRange{{From: 5213, To: 5222}},
	},
	{
		Name:       "concrete",
		Categories: []TradeCategory{CategoryGroundStructural},
		ExclusionPhrases: []string{
			"no concrete",
			"concrete excluded",
			"excluding concrete",
		},
		CodeRanges: []CodeRange{{From: 5213, To: 5213}},
	},
	{
		Name:       "shoring",
		Categories: []TradeCategory{CategoryGroundStructural},
		ExclusionPhrases: []string{
			"no shoring",
			"shoring excluded",
			"no underpinning",
		},
		CodeRanges: []CodeRange{{From: 6217, To: 6217}},
	},
	{
		Name:       "demolition",
		Categories: []TradeCategory{CategoryGroundStructural},
		ExclusionPhrases: []string{
			"no demolition",
			"demolition excluded",
			"excluding demolition",
			"no wrecking",
		},
		CodeRanges: []CodeRange{{From: 5701, To: 5705}},
	},
	{
		Name: "electrical",
		ExclusionPhrases: []string{
			"no electrical",
			"electrical excluded",
			"excluding electrical work",
		},
		CodeRanges: []CodeRange{{From: 5190, To: 5190}},
	},
	{
		Name: "plumbing",
		ExclusionPhrases: []string{
			"no plumbing",
			"plumbing excluded",
			"excluding plumbing",
		},
		CodeRanges: []CodeRange{{From: 5183, To: 5183}},
	},
	{
		Name: "hvac",
		ExclusionPhrases: []string{
			"no hvac",
			"hvac excluded",
			"no heating or cooling work",
		},
		CodeRanges: []CodeRange{{From: 5537, To: 5538}},
	},
	{
		Name: "drywall",
		ExclusionPhrases: []string{
			"no drywall",
			"drywall excluded",
			"excluding drywall",
		},
		CodeRanges: []CodeRange{{From: 5445, To: 5445}},
	},
	{
		Name:       "painting",
		Categories: []TradeCategory{CategoryExterior},
		ExclusionPhrases: []string{
			"no painting",
			"painting excluded",
			"no exterior painting",
		},
		CodeRanges: []CodeRange{{From: 5474, To: 5480}},
	},
	{
		Name: "landscaping",
		ExclusionPhrases: []string{
			"no landscaping",
			"landscaping excluded",
		},
		CodeRanges: []CodeRange{{From: 42, To: 42}},
	},
}
