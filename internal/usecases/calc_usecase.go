package usecases

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/abelzeko/brew-bot/internal/calculator"
	"github.com/abelzeko/brew-bot/internal/entities"
	"github.com/abelzeko/brew-bot/internal/logger"
	"github.com/abelzeko/brew-bot/internal/metrics"
)

// calcCommand is one text-driven calculator
type calcCommand struct {
	usage       string
	description string

	// fields names the positional arguments. Nil for calculators taking a list.
	fields   []string
	required int
	run      func(args []string) (string, error)
}

// CalcUseCase parses text arguments into calculator inputs and formats the results
type CalcUseCase struct {
	commands map[string]calcCommand
}

// NewCalcUseCase creates the calculator registry
func NewCalcUseCase() *CalcUseCase {
	return &CalcUseCase{commands: map[string]calcCommand{
		"abv": {
			usage: "/abv OG FG", description: "alcohol by volume from gravities",
			fields: []string{"og", "fg"}, required: 2, run: runABV,
		},
		"abvbrix": {
			usage: "/abvbrix START_BRIX END_BRIX", description: "alcohol by volume from refractometer readings",
			fields: []string{"start", "end"}, required: 2, run: runABVBrix,
		},
		"brix": {
			usage: "/brix BRIX", description: "Brix to specific gravity",
			fields: []string{"brix"}, required: 1, run: runBrix,
		},
		"sg": {
			usage: "/sg SG", description: "specific gravity to Brix",
			fields: []string{"sg"}, required: 1, run: runSG,
		},
		"tempcorr": {
			usage: "/tempcorr SG TEMP_F [CALIBRATION_F]", description: "hydrometer temperature correction",
			fields: []string{"sg", "temp", "calibration"}, required: 2, run: runTempCorrection,
		},
		"atten": {
			usage: "/atten OG FG", description: "apparent attenuation",
			fields: []string{"og", "fg"}, required: 2, run: runAttenuation,
		},
		"srm": {
			usage: "/srm GALLONS LBS:LOVIBOND...", description: "beer color (Morey)",
			required: 2, run: runSRM,
		},
		"ibu": {
			usage: "/ibu GALLONS OG OZ:ALPHA:MINUTES...", description: "bitterness (Tinseth)",
			required: 3, run: runIBU,
		},
		"prime": {
			usage: "/prime GALLONS CO2_VOLUMES TEMP_F [corn|table|dme|honey]", description: "priming sugar",
			fields: []string{"gallons", "co2", "temp", "sugar"}, required: 3, run: runPriming,
		},
		"nutrient": {
			usage: "/nutrient HONEY_LBS [traditional|melomel|cyser|bochet]", description: "staggered mead nutrients",
			fields: []string{"honey", "style"}, required: 1, run: runNutrients,
		},
		"acid": {
			usage: "/acid GALLONS CURRENT_TA TARGET_TA [tartaric|malic|citric]", description: "wine acid addition (TA in g/L)",
			fields: []string{"gallons", "current", "target", "acid"}, required: 3, run: runAcid,
		},
		"strike": {
			usage: "/strike GRAIN_LBS QT_PER_LB GRAIN_TEMP_F TARGET_F", description: "mash water and strike temperature",
			fields: []string{"grain", "ratio", "graintemp", "target"}, required: 4, run: runStrike,
		},
		"sparge": {
			usage: "/sparge BATCH_GAL GRAIN_LBS QT_PER_LB [BOILOFF_GAL_PER_HR] [BOIL_MIN] [TRUB_GAL]", description: "pre-boil volume and sparge water",
			fields: []string{"batch", "grain", "ratio", "boiloff", "boil", "trub"}, required: 3, run: runSparge,
		},
		"dilute": {
			usage: "/dilute OG GALLONS TARGET_OG", description: "water to reach a lower gravity",
			fields: []string{"og", "gallons", "target"}, required: 3, run: runDilution,
		},
	}}
}

// Kinds lists calculator names in alphabetical order
func (c *CalcUseCase) Kinds() []string {
	return slices.Sorted(maps.Keys(c.commands))
}

// Has reports whether kind names a calculator
func (c *CalcUseCase) Has(kind string) bool {
	_, ok := c.commands[kind]
	return ok
}

// Usage returns the argument synopsis of a calculator
func (c *CalcUseCase) Usage(kind string) string {
	return c.commands[kind].usage
}

// Description returns the one-line summary of a calculator
func (c *CalcUseCase) Description(kind string) string {
	return c.commands[kind].description
}

// Help lists every calculator with its synopsis, one per line
func (c *CalcUseCase) Help() []string {
	var lines []string
	for _, kind := range c.Kinds() {
		cmd := c.commands[kind]
		lines = append(lines, fmt.Sprintf("%s - %s", cmd.usage, cmd.description))
	}
	return lines
}

// Fields returns the named inputs of a calculator, for live mode. Calculators that take
// a list of additions have no fixed fields and cannot run live.
func (c *CalcUseCase) Fields(kind string) ([]string, int, error) {
	cmd, ok := c.commands[kind]
	if !ok {
		return nil, 0, fmt.Errorf("%w: unknown calculator %q", entities.ErrInvalidInput, kind)
	}
	if cmd.fields == nil {
		return nil, 0, fmt.Errorf("%w: %s takes a list of additions and has no live mode", entities.ErrInvalidInput, kind)
	}
	return cmd.fields, cmd.required, nil
}

// Calculate runs a calculator on text arguments. Bad input yields ErrInvalidInput
// carrying the reason and the usage line; no partial result is ever returned.
func (c *CalcUseCase) Calculate(ctx context.Context, kind string, args []string) (string, error) {
	cmd, ok := c.commands[kind]
	if !ok {
		return "", fmt.Errorf("%w: unknown calculator %q", entities.ErrInvalidInput, kind)
	}

	var (
		result string
		err    error
	)
	switch {
	case len(args) < cmd.required:
		err = fmt.Errorf("%w: expected at least %d arguments", entities.ErrInvalidInput, cmd.required)
	case cmd.fields != nil && len(args) > len(cmd.fields):
		err = fmt.Errorf("%w: expected at most %d arguments", entities.ErrInvalidInput, len(cmd.fields))
	default:
		result, err = cmd.run(args)
	}

	if err != nil {
		if errors.Is(err, entities.ErrInvalidInput) {
			metrics.CalculationsTotal.WithLabelValues(kind, metrics.ResultInvalid).Inc()
			logger.FromContext(ctx).Debug("Rejected calculator input", "kind", kind, "args", args, "error", err)
			return "", fmt.Errorf("%w\nUsage: %s", err, cmd.usage)
		}
		metrics.CalculationsTotal.WithLabelValues(kind, metrics.ResultError).Inc()
		return "", err
	}
	metrics.CalculationsTotal.WithLabelValues(kind, metrics.ResultOK).Inc()
	return result, nil
}

// --- argument parsing ---

func parseNumber(s, name string) (float64, error) {
	v, err := strconv.ParseFloat(strings.Replace(strings.TrimSpace(s), ",", ".", 1), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s must be a number, got %q", entities.ErrInvalidInput, name, s)
	}
	return v, nil
}

// parseTemperature reads a Fahrenheit temperature within [lo, hi]
func parseTemperature(s, name string, lo, hi float64) (float64, error) {
	v, err := parseNumber(s, name)
	if err != nil {
		return 0, err
	}
	if v < lo || v > hi {
		return 0, fmt.Errorf("%w: %s must be between %.0f and %.0f °F", entities.ErrInvalidInput, name, lo, hi)
	}
	return v, nil
}

func parsePositive(s, name string) (float64, error) {
	v, err := parseNumber(s, name)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, fmt.Errorf("%w: %s must be greater than 0", entities.ErrInvalidInput, name)
	}
	return v, nil
}

func parseNonNegative(s, name string) (float64, error) {
	v, err := parseNumber(s, name)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: %s cannot be negative", entities.ErrInvalidInput, name)
	}
	return v, nil
}

// Gravities outside this window are typos, e.g. 1050 instead of 1.050
const (
	minGravity = 0.98
	maxGravity = 1.2
)

func parseGravity(s, name string) (float64, error) {
	v, err := parseNumber(s, name)
	if err != nil {
		return 0, err
	}
	if v < minGravity || v > maxGravity {
		return 0, fmt.Errorf("%w: %s must be a specific gravity between %.3f and %.3f", entities.ErrInvalidInput, name, minGravity, maxGravity)
	}
	return v, nil
}

func parseBrix(s, name string) (float64, error) {
	v, err := parseNumber(s, name)
	if err != nil {
		return 0, err
	}
	if v < 0 || v > 45 {
		return 0, fmt.Errorf("%w: %s must be between 0 and 45 °Bx", entities.ErrInvalidInput, name)
	}
	return v, nil
}

// optional returns args[i] or "" when it was not given
func optional(args []string, i int) string {
	if i < len(args) {
		return strings.ToLower(strings.TrimSpace(args[i]))
	}
	return ""
}

// splitTuple parses "a:b:c" into n numbers
func splitTuple(s string, n int, what string) ([]float64, error) {
	parts := strings.Split(s, ":")
	if len(parts) != n {
		return nil, fmt.Errorf("%w: %s must look like %s, got %q", entities.ErrInvalidInput, what, tupleHint[n], s)
	}
	vals := make([]float64, n)
	for i, p := range parts {
		v, err := parseNonNegative(p, what)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}

var tupleHint = map[int]string{2: "A:B", 3: "A:B:C"}

// --- calculators ---

func runABV(args []string) (string, error) {
	og, err := parseGravity(args[0], "og")
	if err != nil {
		return "", err
	}
	fg, err := parseGravity(args[1], "fg")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("🍺 ABV: %.2f%%\nApparent attenuation: %.1f%%",
		calculator.ABV(og, fg), calculator.Attenuation(og, fg)), nil
}

func runABVBrix(args []string) (string, error) {
	start, err := parseBrix(args[0], "start brix")
	if err != nil {
		return "", err
	}
	end, err := parseBrix(args[1], "end brix")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("🍷 ABV: %.2f%%\nOG %.3f, FG %.3f",
		calculator.ABVFromBrix(start, end), calculator.BrixToSG(start), calculator.BrixToSG(end)), nil
}

func runBrix(args []string) (string, error) {
	brix, err := parseBrix(args[0], "brix")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%.1f °Bx = %.3f SG", brix, calculator.BrixToSG(brix)), nil
}

func runSG(args []string) (string, error) {
	sg, err := parseGravity(args[0], "sg")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%.3f SG = %.1f °Bx", sg, calculator.SGToBrix(sg)), nil
}

func runTempCorrection(args []string) (string, error) {
	sg, err := parseGravity(args[0], "sg")
	if err != nil {
		return "", err
	}
	temp, err := parseNumber(args[1], "temperature")
	if err != nil {
		return "", err
	}
	cal := calculator.DefaultCalibrationF
	if s := optional(args, 2); s != "" {
		if cal, err = parseNumber(s, "calibration"); err != nil {
			return "", err
		}
	}
	if temp < 32 || temp > 212 || cal < 32 || cal > 212 {
		return "", fmt.Errorf("%w: temperatures must be between 32 and 212 °F", entities.ErrInvalidInput)
	}
	return fmt.Sprintf("🌡 Corrected gravity: %.3f (read %.3f at %.0f °F, calibrated at %.0f °F)",
		calculator.HydrometerCorrection(sg, temp, cal), sg, temp, cal), nil
}

func runAttenuation(args []string) (string, error) {
	og, err := parseGravity(args[0], "og")
	if err != nil {
		return "", err
	}
	fg, err := parseGravity(args[1], "fg")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Apparent attenuation: %.1f%%", calculator.Attenuation(og, fg)), nil
}

func runSRM(args []string) (string, error) {
	gallons, err := parsePositive(args[0], "gallons")
	if err != nil {
		return "", err
	}
	grains := make([]entities.GrainAddition, 0, len(args)-1)
	for _, a := range args[1:] {
		v, err := splitTuple(a, 2, "grain")
		if err != nil {
			return "", err
		}
		grains = append(grains, entities.GrainAddition{WeightLbs: v[0], ColorLovibond: v[1]})
	}
	srm := calculator.SRM(grains, gallons)
	return fmt.Sprintf("🎨 Color: %.1f SRM (%.1f EBC), %s",
		srm, calculator.SRMToEBC(srm), calculator.ColorDescription(srm)), nil
}

func runIBU(args []string) (string, error) {
	gallons, err := parsePositive(args[0], "gallons")
	if err != nil {
		return "", err
	}
	og, err := parseGravity(args[1], "og")
	if err != nil {
		return "", err
	}

	var b strings.Builder
	hops := make([]entities.HopAddition, 0, len(args)-2)
	for i, a := range args[2:] {
		v, err := splitTuple(a, 3, "hop")
		if err != nil {
			return "", err
		}
		if v[1] > 100 {
			return "", fmt.Errorf("%w: alpha acid is a percentage", entities.ErrInvalidInput)
		}
		hop := entities.HopAddition{WeightOz: v[0], AlphaAcid: v[1], BoilMinutes: v[2]}
		hops = append(hops, hop)
		fmt.Fprintf(&b, "\n  #%d %.2f oz %.1f%% @ %.0f min: %.1f IBU",
			i+1, hop.WeightOz, hop.AlphaAcid, hop.BoilMinutes, calculator.HopIBU(hop, gallons, og))
	}
	ibu := calculator.IBU(hops, gallons, og)
	return fmt.Sprintf("🌿 Bitterness: %.1f IBU (BU:GU %.2f)%s",
		ibu, calculator.BitternessRatio(ibu, og), b.String()), nil
}

func runPriming(args []string) (string, error) {
	gallons, err := parsePositive(args[0], "gallons")
	if err != nil {
		return "", err
	}
	volumes, err := parsePositive(args[1], "CO2 volumes")
	if err != nil {
		return "", err
	}
	// Residual CO2 is fit for beer between freezing and warm cellar temperatures
	temp, err := parseTemperature(args[2], "temperature", 32, 100)
	if err != nil {
		return "", err
	}
	if volumes > 5 {
		return "", fmt.Errorf("%w: CO2 volumes above 5 are not safe in bottles", entities.ErrInvalidInput)
	}
	sugar, err := entities.ParseSugarType(optional(args, 3))
	if err != nil {
		return "", fmt.Errorf("%w: unknown sugar %q", err, optional(args, 3))
	}

	grams := calculator.PrimingSugar(volumes, temp, sugar, gallons)
	if grams == 0 {
		return fmt.Sprintf("The beer already holds %.2f volumes of CO2; no %s needed.",
			calculator.ResidualCO2(temp), sugar.Label()), nil
	}
	return fmt.Sprintf("🫧 Priming: %.1f g (%.2f oz) of %s for %.2f volumes",
		grams, grams/calculator.GramsPerOunce, sugar.Label(), volumes), nil
}

func runNutrients(args []string) (string, error) {
	honey, err := parsePositive(args[0], "honey pounds")
	if err != nil {
		return "", err
	}
	mead, err := entities.ParseMeadType(optional(args, 1))
	if err != nil {
		return "", fmt.Errorf("%w: unknown mead style %q", err, optional(args, 1))
	}
	doses := calculator.MeadNutrients(honey, mead)
	return fmt.Sprintf("🍯 %s mead, %.1f lb honey: %.2f g nutrient in total\n  Fermaid K: %.2f g\n  Fermaid O: %.2f g",
		mead, honey, doses.Total, doses.FermaidK, doses.FermaidO), nil
}

func runAcid(args []string) (string, error) {
	gallons, err := parsePositive(args[0], "gallons")
	if err != nil {
		return "", err
	}
	current, err := parseNonNegative(args[1], "current TA")
	if err != nil {
		return "", err
	}
	target, err := parseNonNegative(args[2], "target TA")
	if err != nil {
		return "", err
	}
	acid, err := entities.ParseAcidType(optional(args, 3))
	if err != nil {
		return "", fmt.Errorf("%w: unknown acid %q", err, optional(args, 3))
	}
	grams := calculator.AcidAddition(current, target, gallons, acid)
	if grams == 0 {
		return "Acidity is already at or above the target; no acid needed.", nil
	}
	return fmt.Sprintf("🍇 Add %.1f g of %s acid", grams, acid), nil
}

func runStrike(args []string) (string, error) {
	grain, err := parsePositive(args[0], "grain pounds")
	if err != nil {
		return "", err
	}
	ratio, err := parsePositive(args[1], "mash ratio")
	if err != nil {
		return "", err
	}
	grainTemp, err := parseNumber(args[2], "grain temperature")
	if err != nil {
		return "", err
	}
	target, err := parseNumber(args[3], "target temperature")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("♨️ Strike water: %.2f gal at %.1f °F",
		calculator.MashWater(grain, ratio), calculator.StrikeTemperature(ratio, grainTemp, target)), nil
}

func runSparge(args []string) (string, error) {
	batch, err := parsePositive(args[0], "batch gallons")
	if err != nil {
		return "", err
	}
	grain, err := parsePositive(args[1], "grain pounds")
	if err != nil {
		return "", err
	}
	ratio, err := parsePositive(args[2], "mash ratio")
	if err != nil {
		return "", err
	}

	boilOff, boilMinutes, trub := 1.0, 60.0, 0.5
	for i, dst := range []*float64{&boilOff, &boilMinutes, &trub} {
		if s := optional(args, 3+i); s != "" {
			if *dst, err = parseNonNegative(s, []string{"boil-off", "boil minutes", "trub loss"}[i]); err != nil {
				return "", err
			}
		}
	}

	mash := calculator.MashWater(grain, ratio)
	preBoil := calculator.PreBoilVolume(batch, boilOff, boilMinutes, trub)
	return fmt.Sprintf("💧 Mash water: %.2f gal\nSparge water: %.2f gal\nPre-boil volume: %.2f gal",
		mash, calculator.SpargeWater(preBoil, mash, grain), preBoil), nil
}

func runDilution(args []string) (string, error) {
	og, err := parseGravity(args[0], "og")
	if err != nil {
		return "", err
	}
	gallons, err := parsePositive(args[1], "gallons")
	if err != nil {
		return "", err
	}
	target, err := parseGravity(args[2], "target og")
	if err != nil {
		return "", err
	}
	water := calculator.Dilution(og, gallons, target)
	if water == 0 {
		return "The wort is already at or below the target gravity.", nil
	}
	return fmt.Sprintf("Add %.2f gal of water for %.2f gal at %.3f", water, gallons+water, target), nil
}
