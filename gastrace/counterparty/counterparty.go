package counterparty

import (
	"github.com/verdio/gastrace/gastrace/contract"
	"github.com/verdio/gastrace/gastrace/emission"
)

// Info identifies the counterparty on a matched record, either user-declared
// or auto-resolved.
type Info struct {
	Name        string `json:"name"`
	ContactName string `json:"contactName,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Approved    bool   `json:"approved,omitempty"`
}

// Declaration is a user-supplied counterparty for an emission point. Known
// marks that the user actually identified the counterparty; an unknown
// declaration yields a book-and-claim match with no counterparty.
type Declaration struct {
	Info  Info
	Known bool
}

// OperatorFor returns the fixed pipeline-operator identity. The
// transportation segment always settles against the operator, never against
// a user declaration.
func OperatorFor(pipeline contract.Pipeline) Info {
	switch pipeline {
	case contract.PipelineREX:
		return Info{
			Name:        "ROCKIES EXPRESS PIPELINE LLC",
			ContactName: "Scheduling Desk",
			Email:       "scheduling@rexpipeline.example.com",
			Phone:       "+1 713 555 0142",
			Approved:    true,
		}
	case contract.PipelineRuby:
		return Info{
			Name:        "RUBY PIPELINE LLC",
			ContactName: "Scheduling Desk",
			Email:       "scheduling@rubypipeline.example.com",
			Phone:       "+1 713 555 0177",
			Approved:    true,
		}
	default:
		return Info{}
	}
}

// DefaultOffsetProvider returns the fixed counterparty attached to the
// synthetic thermal-offset record on carbon-neutral orders.
func DefaultOffsetProvider() Info {
	return Info{
		Name:        "BLUE SOURCE OFFSET PARTNERS LLC",
		ContactName: "Registry Operations",
		Email:       "registry@bluesourceoffsets.example.com",
		Phone:       "+1 801 555 0193",
		Approved:    true,
	}
}

// Resolve applies the counterparty policy for one emission point:
//
//   - transportation: the pipeline operator, irrespective of any declaration
//   - thermal: the default offset provider
//   - anything else: the declaration when Known, otherwise nil
//
// A nil result marks an unverified book-and-claim match. Resolve is
// idempotent.
func Resolve(point emission.Point, pipeline contract.Pipeline, declared *Declaration) *Info {
	switch point {
	case emission.PointTransportation:
		operator := OperatorFor(pipeline)

		return &operator
	case emission.PointThermal:
		provider := DefaultOffsetProvider()

		return &provider
	default:
		if declared != nil && declared.Known {
			info := declared.Info

			return &info
		}

		return nil
	}
}
