package transform

// Params collects every tunable constant the layout pipeline uses.
// The zero value is invalid; use DefaultParams.
type Params struct {
	ContentPadding float64
	BlockGap       float64

	PortStart   float64
	PortSpacing float64
	ArrowRadius float64

	TrackPadding float64
	JointSpacing float64

	BackedgeArrowPushout float64
	HeaderArrowPushdown  float64

	NearlyStraight           float64
	LayoutIterations         int
	NearlyStraightIterations int
}

// DefaultParams returns the pipeline's default tuning, as specified.
func DefaultParams() Params {
	return Params{
		ContentPadding:           20,
		BlockGap:                 44,
		PortStart:                16,
		PortSpacing:              60,
		ArrowRadius:              12,
		TrackPadding:             36,
		JointSpacing:             16,
		BackedgeArrowPushout:     32,
		HeaderArrowPushdown:      16,
		NearlyStraight:           30,
		LayoutIterations:         2,
		NearlyStraightIterations: 4,
	}
}
