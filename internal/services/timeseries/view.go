package timeseries

// View holds a retained original series and what is currently displayed from
// it. Displayed is always recomputed from Original, never from itself.
type View struct {
	Original  Series
	Displayed Series
	Token     RangeToken
	Last      Result
}

// NewView retains original and displays it unfiltered.
func NewView(original Series) *View {
	return &View{
		Original:  original,
		Displayed: original.Clone(),
		Token:     PresetToken(PresetAll),
		Last:      Result{Points: original.Clone(), Rule: SelectionRule{Kind: Unbounded}, Matched: len(original)},
	}
}

// Apply recomputes Displayed for a new token.
func (v *View) Apply(f *Filter, tok RangeToken) Result {
	res := f.Apply(v.Original, tok)
	v.Token = tok
	v.Displayed = res.Points
	v.Last = res
	return res
}

// Reset replaces the retained original and re-applies the current token.
func (v *View) Reset(f *Filter, original Series) Result {
	v.Original = original
	return v.Apply(f, v.Token)
}
