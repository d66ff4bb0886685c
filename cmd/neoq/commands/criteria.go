package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/neo-approach-service/internal/filters"
)

// criteriaFlags registers the filter flag set shared by query and publish and
// converts it to filter criteria. A flag the user never set contributes no
// criterion, so --not-hazardous is a real restriction while omitting both
// hazard flags is none at all.
type criteriaFlags struct {
	date      string
	startDate string
	endDate   string

	minDistance float64
	maxDistance float64
	minVelocity float64
	maxVelocity float64
	minDiameter float64
	maxDiameter float64

	hazardous    bool
	notHazardous bool
}

func (cf *criteriaFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()

	fl.StringVarP(&cf.date, "date", "d", "", "only approaches on this date (YYYY-MM-DD)")
	fl.StringVarP(&cf.startDate, "start-date", "s", "", "only approaches on or after this date (YYYY-MM-DD)")
	fl.StringVarP(&cf.endDate, "end-date", "e", "", "only approaches on or before this date (YYYY-MM-DD)")

	fl.Float64Var(&cf.minDistance, "min-distance", 0, "only approaches at or beyond this distance (au)")
	fl.Float64Var(&cf.maxDistance, "max-distance", 0, "only approaches at or within this distance (au)")
	fl.Float64Var(&cf.minVelocity, "min-velocity", 0, "only approaches at or above this velocity (km/s)")
	fl.Float64Var(&cf.maxVelocity, "max-velocity", 0, "only approaches at or below this velocity (km/s)")
	fl.Float64Var(&cf.minDiameter, "min-diameter", 0, "only approaches of NEOs at least this large (km)")
	fl.Float64Var(&cf.maxDiameter, "max-diameter", 0, "only approaches of NEOs at most this large (km)")

	fl.BoolVar(&cf.hazardous, "hazardous", false, "only approaches of potentially hazardous NEOs")
	fl.BoolVar(&cf.notHazardous, "not-hazardous", false, "only approaches of NEOs not potentially hazardous")
}

func (cf *criteriaFlags) criteria(cmd *cobra.Command) (filters.Criteria, error) {
	var c filters.Criteria
	fl := cmd.Flags()

	date := func(flag, value string, dst **time.Time) error {
		if !fl.Changed(flag) {
			return nil
		}
		t, err := time.ParseInLocation(time.DateOnly, value, time.UTC)
		if err != nil {
			return fmt.Errorf("invalid --%s %q (want YYYY-MM-DD)", flag, value)
		}
		*dst = &t
		return nil
	}
	number := func(flag string, value float64, dst **float64) {
		if fl.Changed(flag) {
			*dst = &value
		}
	}

	if err := date("date", cf.date, &c.Date); err != nil {
		return c, err
	}
	if err := date("start-date", cf.startDate, &c.StartDate); err != nil {
		return c, err
	}
	if err := date("end-date", cf.endDate, &c.EndDate); err != nil {
		return c, err
	}

	number("min-distance", cf.minDistance, &c.DistanceMin)
	number("max-distance", cf.maxDistance, &c.DistanceMax)
	number("min-velocity", cf.minVelocity, &c.VelocityMin)
	number("max-velocity", cf.maxVelocity, &c.VelocityMax)
	number("min-diameter", cf.minDiameter, &c.DiameterMin)
	number("max-diameter", cf.maxDiameter, &c.DiameterMax)

	if cf.hazardous && cf.notHazardous {
		return c, errors.New("--hazardous and --not-hazardous are mutually exclusive")
	}
	if cf.hazardous || cf.notHazardous {
		h := cf.hazardous
		c.Hazardous = &h
	}

	return c, nil
}
