package domain

import (
	"encoding/json"
	"maps"
	"slices"
)

// Flag names a single UI affordance that navigation rendering may show or hide.
type Flag string

const (
	FlagDashboard            Flag = "showDashboard"
	FlagMedicalRequests      Flag = "showMedicalRequests"
	FlagSidebar              Flag = "showSidebar"
	FlagPharmacy             Flag = "showPharmacy"
	FlagDoctorRegistration   Flag = "showDoctorRegistration"
	FlagInventoryRequest     Flag = "showInventoryRequest"
	FlagSupervisor           Flag = "showSupervisor"
	FlagClinicController     Flag = "showcliniccontroller"
	FlagInventory            Flag = "showInventory"
	FlagInventoryReports     Flag = "showInventoryReports"
	FlagInventoryAdjustments Flag = "showInventoryAdjustments"
	FlagInventoryTransfers   Flag = "showInventoryTransfers"
	FlagLaboratory           Flag = "showLaboratory"
	FlagNursing              Flag = "showNursing"
	FlagPatientRegistry      Flag = "showPatientRegistry"
	FlagReports              Flag = "showReports"
	FlagFinanceApproval      Flag = "showFinanceApproval"
	FlagCashierPayment       Flag = "showCashierPayment"
)

var allFlags = []Flag{
	FlagDashboard,
	FlagMedicalRequests,
	FlagSidebar,
	FlagPharmacy,
	FlagDoctorRegistration,
	FlagInventoryRequest,
	FlagSupervisor,
	FlagClinicController,
	FlagInventory,
	FlagInventoryReports,
	FlagInventoryAdjustments,
	FlagInventoryTransfers,
	FlagLaboratory,
	FlagNursing,
	FlagPatientRegistry,
	FlagReports,
	FlagFinanceApproval,
	FlagCashierPayment,
}

// AllFlags returns the fixed flag universe in declaration order.
func AllFlags() []Flag {
	return slices.Clone(allFlags)
}

// IsKnown reports whether f belongs to the flag universe.
func (f Flag) IsKnown() bool {
	return slices.Contains(allFlags, f)
}

// IsClinic reports whether f exposes a clinic-oriented section. Finance, cashier and
// the sidebar itself are not clinic flags.
func (f Flag) IsClinic() bool {
	switch f {
	case FlagFinanceApproval, FlagCashierPayment, FlagSidebar:
		return false
	default:
		return f.IsKnown()
	}
}

// ClinicFlags returns every clinic-oriented flag.
func ClinicFlags() []Flag {
	out := make([]Flag, 0, len(allFlags))
	for _, f := range allFlags {
		if f.IsClinic() {
			out = append(out, f)
		}
	}
	return out
}

// FlagBag is a fixed-shape mapping from every known flag to its visibility.
// A bag built with NewFlagBag always carries every flag in AllFlags.
type FlagBag struct {
	values map[Flag]bool
}

// NewFlagBag returns a bag where exactly the given flags are true.
// Unknown flags are ignored.
func NewFlagBag(enabled ...Flag) FlagBag {
	values := make(map[Flag]bool, len(allFlags))
	for _, f := range allFlags {
		values[f] = false
	}
	for _, f := range enabled {
		if _, ok := values[f]; ok {
			values[f] = true
		}
	}
	return FlagBag{values: values}
}

// Get returns the visibility of f. Unknown flags are always false.
func (b FlagBag) Get(f Flag) bool {
	return b.values[f]
}

// With returns a copy of the bag with the given flags switched on.
func (b FlagBag) With(flags ...Flag) FlagBag {
	next := NewFlagBag(b.Enabled()...)
	for _, f := range flags {
		if _, ok := next.values[f]; ok {
			next.values[f] = true
		}
	}
	return next
}

// Enabled returns the flags set to true, in declaration order.
func (b FlagBag) Enabled() []Flag {
	out := make([]Flag, 0)
	for _, f := range allFlags {
		if b.values[f] {
			out = append(out, f)
		}
	}
	return out
}

// Map returns a copy of the bag as a plain map.
func (b FlagBag) Map() map[Flag]bool {
	if b.values == nil {
		return NewFlagBag().Map()
	}
	return maps.Clone(b.values)
}

// Equal reports whether both bags agree on every flag.
func (b FlagBag) Equal(other FlagBag) bool {
	for _, f := range allFlags {
		if b.Get(f) != other.Get(f) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the bag as an object keyed by flag name.
func (b FlagBag) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Map())
}
