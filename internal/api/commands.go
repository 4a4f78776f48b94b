package api

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/abelzeko/brew-bot/internal/calculator"
	"github.com/abelzeko/brew-bot/internal/entities"
	"github.com/abelzeko/brew-bot/internal/logger"
	"github.com/abelzeko/brew-bot/internal/metrics"
	"github.com/abelzeko/brew-bot/internal/usecases"
)

const unknownCommand = "Unknown command. Use /help to see available commands."

// CommandRouter turns a chat command into a reply. It holds no transport, so the
// same routing serves typed commands and interpreted free text.
type CommandRouter struct {
	brew *usecases.BrewUseCase
	calc *usecases.CalcUseCase
	live *usecases.LiveCalculator

	// commands maps a command name to its handler; filled in by NewCommandRouter
	commands map[string]commandHandler
}

type commandHandler struct {
	usage    string
	readOnly bool // Free text may trigger it
	handle   func(ctx context.Context, chatID int64, args []string) (string, error)
}

// NewCommandRouter creates the command table
func NewCommandRouter(brew *usecases.BrewUseCase, calc *usecases.CalcUseCase, live *usecases.LiveCalculator) *CommandRouter {
	r := &CommandRouter{brew: brew, calc: calc, live: live}
	r.commands = map[string]commandHandler{
		"live":       {"/live CALCULATOR - recalculate as you set fields", false, r.handleLive},
		"set":        {"/set FIELD VALUE - change a live field", false, r.handleSet},
		"stop":       {"/stop - leave live mode", false, r.handleStop},
		"inventory":  {"/inventory [TYPE|SEARCH] - list stocked ingredients", true, r.handleInventory},
		"additem":    {"/additem TYPE QTY UNIT NAME [cost=X] [color=L] [aa=%] - stock an ingredient", false, r.handleAddItem},
		"useitem":    {"/useitem AMOUNT NAME - take from stock", false, r.handleUseItem},
		"edititem":   {"/edititem NAME [qty=N] [unit=U] [cost=X] [color=L] [aa=%] - change an ingredient", false, r.handleEditItem},
		"delitem":    {"/delitem NAME - remove an ingredient", false, r.handleDeleteItem},
		"yeasts":     {"/yeasts [SEARCH] - list the yeast bank", true, r.handleYeasts},
		"addyeast":   {"/addyeast NAME [lab=X] [code=X] [form=dry] [atten=73-77] [temp=59-68] [qty=N] [expires=YYYY-MM-DD]", false, r.handleAddYeast},
		"edityeast":  {"/edityeast ID [lab=X] [code=X] [form=dry] [atten=73-77] [temp=59-68] [qty=N] [expires=YYYY-MM-DD]", false, r.handleEditYeast},
		"delyeast":   {"/delyeast ID - remove a yeast", false, r.handleDeleteYeast},
		"recipes":    {"/recipes [SEARCH] - list recipes", true, r.handleRecipes},
		"recipe":     {"/recipe ID - show a recipe", true, r.handleRecipe},
		"import":     {"/import URL - import a recipe page", false, r.handleImport},
		"editrecipe": {"/editrecipe ID [NEW NAME] [style=X] [gal=N] [og=SG] [fg=SG] [boil=MIN] [eff=%] [yeast=ID] - change a recipe", false, r.handleEditRecipe},
		"delrecipe":  {"/delrecipe ID - delete a recipe", false, r.handleDeleteRecipe},
		"projects":   {"/projects [STATUS] - list projects", true, r.handleProjects},
		"project":    {"/project ID - show a project", true, r.handleProject},
		"newproject": {"/newproject NAME [recipe=ID] [beverage=mead] [style=X] [gal=N] - start a project", false, r.handleNewProject},
		"status":     {"/status ID STATUS - move a project along", false, r.handleStatus},
		"reading":    {"/reading ID SG [TEMP_F] - record a gravity reading", false, r.handleReading},
		"delproject": {"/delproject ID - delete a project", false, r.handleDeleteProject},
		"stats":      {"/stats - totals across the log", true, r.handleStats},
	}
	return r
}

// Help is the /help text
func (r *CommandRouter) Help() string {
	var b strings.Builder
	b.WriteString("Calculators:\n")
	for _, line := range r.calc.Help() {
		b.WriteString(line + "\n")
	}
	b.WriteString("\nBrewing log:\n")
	for _, name := range []string{
		"inventory", "additem", "useitem", "edititem", "delitem",
		"yeasts", "addyeast", "edityeast", "delyeast",
		"recipes", "recipe", "import", "editrecipe", "delrecipe",
		"projects", "project", "newproject", "status", "reading", "delproject", "stats",
		"live", "set", "stop",
	} {
		b.WriteString(r.commands[name].usage + "\n")
	}
	return b.String()
}

// InterpretableCommands lists what free text may trigger, with argument order
func (r *CommandRouter) InterpretableCommands() []string {
	commands := r.calc.Help()
	for _, name := range []string{"inventory", "yeasts", "recipes", "recipe", "projects", "project", "stats"} {
		commands = append(commands, r.commands[name].usage)
	}
	return commands
}

// Handle runs one command and returns the reply. An empty reply means nothing to send.
func (r *CommandRouter) Handle(ctx context.Context, chatID int64, command, arguments string) string {
	command = strings.ToLower(command)
	args := strings.Fields(arguments)
	log := logger.FromContext(ctx)

	var (
		reply string
		err   error
	)
	switch {
	case command == "start":
		metrics.CommandsTotal.WithLabelValues(command).Inc()
		return "Welcome to Brew Bot! Calculators, inventory, recipes and batch tracking for beer, wine, mead and cider. Use /help to see what I can do."
	case command == "help":
		metrics.CommandsTotal.WithLabelValues(command).Inc()
		return r.Help()
	case r.calc.Has(command):
		metrics.CommandsTotal.WithLabelValues(command).Inc()
		reply, err = r.calc.Calculate(ctx, command, args)
	default:
		h, ok := r.commands[command]
		if !ok {
			log.Info("Received unknown command", "command", command)
			metrics.CommandsTotal.WithLabelValues("unknown").Inc()
			return unknownCommand
		}
		metrics.CommandsTotal.WithLabelValues(command).Inc()
		reply, err = h.handle(ctx, chatID, args)
	}

	if err != nil {
		return usecases.UserMessage(ctx, err)
	}
	return reply
}

// HandleText answers free text by interpreting it as a command
func (r *CommandRouter) HandleText(ctx context.Context, chatID int64, text string) string {
	const fallback = "I don't understand. Use /help to see available commands."

	intent, err := r.brew.InterpretQuery(ctx, text, r.InterpretableCommands())
	if err != nil {
		if !errors.Is(err, usecases.ErrNotConfigured) {
			logger.FromContext(ctx).Error("Error interpreting user query", "error", err)
		}
		return fallback
	}
	logger.FromContext(ctx).Info("Interpreted free text", "command", intent.Command, "args", intent.Arguments)

	h, known := r.commands[intent.Command]
	if !r.calc.Has(intent.Command) && !(known && h.readOnly) {
		if intent.UserMessage != "" {
			return intent.UserMessage
		}
		return fallback
	}

	reply := r.Handle(ctx, chatID, intent.Command, strings.Join(intent.Arguments, " "))
	if intent.UserMessage != "" {
		reply = intent.UserMessage + "\n\n" + reply
	}
	return reply
}

// --- argument helpers ---

func usageError(usage string) error {
	return fmt.Errorf("%w\nUsage: %s", entities.ErrInvalidInput, usage)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(s, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q is not an id", entities.ErrInvalidInput, s)
	}
	return id, nil
}

func parseFloat(s, name string) (float64, error) {
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s must be a number, got %q", entities.ErrInvalidInput, name, s)
	}
	return v, nil
}

// parseRange reads "73-77" or a single "75"
func parseRange(s, name string) (float64, float64, error) {
	loText, hiText, found := strings.Cut(s, "-")
	lo, err := parseFloat(loText, name)
	if err != nil {
		return 0, 0, err
	}
	if !found {
		return lo, lo, nil
	}
	hi, err := parseFloat(hiText, name)
	if err != nil {
		return 0, 0, err
	}
	return lo, hi, nil
}

// splitOptions separates key=value tokens from the words around them
func splitOptions(args []string) ([]string, map[string]string) {
	var words []string
	opts := make(map[string]string)
	for _, a := range args {
		if k, v, ok := strings.Cut(a, "="); ok && k != "" {
			opts[strings.ToLower(k)] = v
			continue
		}
		words = append(words, a)
	}
	return words, opts
}

// --- live mode ---

func (r *CommandRouter) handleLive(ctx context.Context, chatID int64, args []string) (string, error) {
	if len(args) != 1 {
		return "", usageError(r.commands["live"].usage)
	}
	fields, err := r.live.Start(chatID, strings.ToLower(args[0]))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("⚡ Live %s started. Set fields with /set FIELD VALUE, results follow as you type.\nFields: %s\nUse /stop to finish.",
		args[0], strings.Join(fields, ", ")), nil
}

func (r *CommandRouter) handleSet(ctx context.Context, chatID int64, args []string) (string, error) {
	if len(args) < 1 || len(args) > 2 {
		return "", usageError(r.commands["set"].usage)
	}
	value := ""
	if len(args) == 2 {
		value = args[1]
	}
	// The result arrives through the live publisher
	return "", r.live.Set(chatID, strings.ToLower(args[0]), value)
}

func (r *CommandRouter) handleStop(ctx context.Context, chatID int64, args []string) (string, error) {
	r.live.Stop(chatID)
	return "Live calculator stopped.", nil
}

// --- inventory ---

func (r *CommandRouter) handleInventory(ctx context.Context, chatID int64, args []string) (string, error) {
	var filter entities.IngredientFilter
	query := strings.Join(args, " ")
	for _, t := range entities.IngredientTypes {
		if strings.EqualFold(query, string(t)) {
			filter.Type = t
		}
	}
	if filter.Type == "" {
		filter.Search = query
	}
	items, err := r.brew.ListIngredients(ctx, filter)
	if err != nil {
		return "", err
	}
	return usecases.FormatIngredients(items), nil
}

func (r *CommandRouter) handleAddItem(ctx context.Context, chatID int64, args []string) (string, error) {
	words, opts := splitOptions(args)
	if len(words) < 4 {
		return "", usageError(r.commands["additem"].usage)
	}
	qty, err := parseFloat(words[1], "quantity")
	if err != nil {
		return "", err
	}
	ing := &entities.Ingredient{
		Type:     entities.IngredientType(strings.ToLower(words[0])),
		Quantity: qty,
		Unit:     strings.ToLower(words[2]),
		Name:     strings.Join(words[3:], " "),
	}
	for key, dst := range map[string]*float64{"cost": &ing.CostPerUnit, "color": &ing.ColorLovibond, "aa": &ing.AlphaAcid} {
		if v, ok := opts[key]; ok {
			if *dst, err = parseFloat(v, key); err != nil {
				return "", err
			}
		}
	}
	if err := r.brew.AddIngredient(ctx, ing); err != nil {
		return "", err
	}
	return fmt.Sprintf("✅ Added %s (#%d): %.2f %s", usecases.DisplayName(ing.Name), ing.ID, ing.Quantity, ing.Unit), nil
}

func (r *CommandRouter) handleUseItem(ctx context.Context, chatID int64, args []string) (string, error) {
	if len(args) < 2 {
		return "", usageError(r.commands["useitem"].usage)
	}
	amount, err := parseFloat(args[0], "amount")
	if err != nil {
		return "", err
	}
	ing, err := r.brew.UseIngredient(ctx, strings.Join(args[1:], " "), amount)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("📦 %s: %.2f %s left", usecases.DisplayName(ing.Name), ing.Quantity, ing.Unit), nil
}

func (r *CommandRouter) handleEditItem(ctx context.Context, chatID int64, args []string) (string, error) {
	words, opts := splitOptions(args)
	if len(words) == 0 || len(opts) == 0 {
		return "", usageError(r.commands["edititem"].usage)
	}
	ing, err := r.brew.GetIngredient(ctx, strings.Join(words, " "))
	if err != nil {
		return "", err
	}
	fields := map[string]*float64{"qty": &ing.Quantity, "cost": &ing.CostPerUnit, "color": &ing.ColorLovibond, "aa": &ing.AlphaAcid}
	for key, v := range opts {
		if key == "unit" {
			ing.Unit = strings.ToLower(v)
			continue
		}
		dst, ok := fields[key]
		if !ok {
			return "", fmt.Errorf("%w: unknown option %q", entities.ErrInvalidInput, key)
		}
		if *dst, err = parseFloat(v, key); err != nil {
			return "", err
		}
	}
	if err := r.brew.UpdateIngredient(ctx, ing); err != nil {
		return "", err
	}
	return fmt.Sprintf("✏️ Updated %s: %.2f %s", usecases.DisplayName(ing.Name), ing.Quantity, ing.Unit), nil
}

func (r *CommandRouter) handleDeleteItem(ctx context.Context, chatID int64, args []string) (string, error) {
	if len(args) == 0 {
		return "", usageError(r.commands["delitem"].usage)
	}
	name := strings.Join(args, " ")
	if err := r.brew.DeleteIngredient(ctx, name); err != nil {
		return "", err
	}
	return fmt.Sprintf("🗑 Removed %s from the inventory.", usecases.DisplayName(name)), nil
}

func (r *CommandRouter) handleYeasts(ctx context.Context, chatID int64, args []string) (string, error) {
	yeasts, err := r.brew.ListYeasts(ctx, strings.Join(args, " "))
	if err != nil {
		return "", err
	}
	return usecases.FormatYeasts(yeasts), nil
}

func (r *CommandRouter) handleAddYeast(ctx context.Context, chatID int64, args []string) (string, error) {
	words, opts := splitOptions(args)
	if len(words) == 0 {
		return "", usageError(r.commands["addyeast"].usage)
	}
	y := &entities.Yeast{Name: strings.Join(words, " "), Quantity: 1}
	if err := applyYeastOptions(y, opts); err != nil {
		return "", err
	}
	if err := r.brew.AddYeast(ctx, y); err != nil {
		return "", err
	}
	return fmt.Sprintf("✅ Added yeast %s (#%d)", usecases.DisplayName(y.Name), y.ID), nil
}

func (r *CommandRouter) handleEditYeast(ctx context.Context, chatID int64, args []string) (string, error) {
	words, opts := splitOptions(args)
	if len(words) != 1 || len(opts) == 0 {
		return "", usageError(r.commands["edityeast"].usage)
	}
	id, err := parseID(words[0])
	if err != nil {
		return "", err
	}
	y, err := r.brew.GetYeast(ctx, id)
	if err != nil {
		return "", err
	}
	if err := applyYeastOptions(y, opts); err != nil {
		return "", err
	}
	if err := r.brew.UpdateYeast(ctx, y); err != nil {
		return "", err
	}
	return fmt.Sprintf("✏️ Updated yeast %s (#%d)", usecases.DisplayName(y.Name), y.ID), nil
}

func (r *CommandRouter) handleDeleteYeast(ctx context.Context, chatID int64, args []string) (string, error) {
	if len(args) != 1 {
		return "", usageError(r.commands["delyeast"].usage)
	}
	id, err := parseID(args[0])
	if err != nil {
		return "", err
	}
	if err := r.brew.DeleteYeast(ctx, id); err != nil {
		return "", err
	}
	return fmt.Sprintf("🗑 Removed yeast #%d.", id), nil
}

// applyYeastOptions sets the yeast fields named in opts
func applyYeastOptions(y *entities.Yeast, opts map[string]string) error {
	var err error
	for key, v := range opts {
		switch key {
		case "lab":
			y.Lab = v
		case "code":
			y.ProductCode = v
		case "form":
			y.Form = strings.ToLower(v)
		case "atten":
			if y.AttenuationMin, y.AttenuationMax, err = parseRange(v, "atten"); err != nil {
				return err
			}
		case "temp":
			if y.TempMinF, y.TempMaxF, err = parseRange(v, "temp"); err != nil {
				return err
			}
		case "qty":
			if y.Quantity, err = parseFloat(v, "qty"); err != nil {
				return err
			}
		case "expires":
			exp, err := time.ParseInLocation("2006-01-02", v, time.Local)
			if err != nil {
				return fmt.Errorf("%w: expires must look like 2026-12-31", entities.ErrInvalidInput)
			}
			y.ExpiresAt = &exp
		default:
			return fmt.Errorf("%w: unknown option %q", entities.ErrInvalidInput, key)
		}
	}
	return nil
}

// --- recipes ---

func (r *CommandRouter) handleRecipes(ctx context.Context, chatID int64, args []string) (string, error) {
	recipes, err := r.brew.ListRecipes(ctx, entities.RecipeFilter{Search: strings.Join(args, " ")})
	if err != nil {
		return "", err
	}
	return usecases.FormatRecipes(recipes), nil
}

func (r *CommandRouter) showRecipe(ctx context.Context, id int64) (string, error) {
	recipe, err := r.brew.GetRecipe(ctx, id)
	if err != nil {
		return "", err
	}
	cost, err := r.brew.RecipeCost(ctx, id)
	if err != nil {
		return "", err
	}
	return usecases.FormatRecipe(recipe, cost), nil
}

func (r *CommandRouter) handleRecipe(ctx context.Context, chatID int64, args []string) (string, error) {
	if len(args) != 1 {
		return "", usageError(r.commands["recipe"].usage)
	}
	id, err := parseID(args[0])
	if err != nil {
		return "", err
	}
	return r.showRecipe(ctx, id)
}

func (r *CommandRouter) handleImport(ctx context.Context, chatID int64, args []string) (string, error) {
	if len(args) != 1 || !strings.HasPrefix(args[0], "http") {
		return "", usageError(r.commands["import"].usage)
	}
	recipe, err := r.brew.ImportRecipe(ctx, args[0])
	if err != nil {
		return "", err
	}
	text, err := r.showRecipe(ctx, recipe.ID)
	if err != nil {
		return "", err
	}
	return "✅ Imported\n\n" + text, nil
}

func (r *CommandRouter) handleEditRecipe(ctx context.Context, chatID int64, args []string) (string, error) {
	words, opts := splitOptions(args)
	if len(words) == 0 || (len(words) == 1 && len(opts) == 0) {
		return "", usageError(r.commands["editrecipe"].usage)
	}
	id, err := parseID(words[0])
	if err != nil {
		return "", err
	}
	current, err := r.brew.GetRecipe(ctx, id)
	if err != nil {
		return "", err
	}

	// Edit a copy so a rejected change leaves the cached recipe alone
	header := current.Recipe
	if len(words) > 1 {
		header.Name = strings.Join(words[1:], " ")
	}
	fields := map[string]*float64{
		"gal": &header.BatchGallons, "og": &header.TargetOG, "fg": &header.TargetFG,
		"boil": &header.BoilMinutes, "eff": &header.Efficiency,
	}
	for key, v := range opts {
		switch key {
		case "style":
			header.Style = v
		case "yeast":
			yeastID, err := parseID(v)
			if err != nil {
				return "", err
			}
			if _, err := r.brew.GetYeast(ctx, yeastID); err != nil {
				return "", err
			}
			header.YeastID = &yeastID
		default:
			dst, ok := fields[key]
			if !ok {
				return "", fmt.Errorf("%w: unknown option %q", entities.ErrInvalidInput, key)
			}
			if *dst, err = parseFloat(v, key); err != nil {
				return "", err
			}
		}
	}
	if err := r.brew.UpdateRecipe(ctx, &header); err != nil {
		return "", err
	}
	text, err := r.showRecipe(ctx, id)
	if err != nil {
		return "", err
	}
	return "✏️ Updated\n\n" + text, nil
}

func (r *CommandRouter) handleDeleteRecipe(ctx context.Context, chatID int64, args []string) (string, error) {
	if len(args) != 1 {
		return "", usageError(r.commands["delrecipe"].usage)
	}
	id, err := parseID(args[0])
	if err != nil {
		return "", err
	}
	if err := r.brew.DeleteRecipe(ctx, id); err != nil {
		return "", err
	}
	return fmt.Sprintf("🗑 Deleted recipe #%d.", id), nil
}

// --- projects ---

func (r *CommandRouter) handleProjects(ctx context.Context, chatID int64, args []string) (string, error) {
	var status entities.ProjectStatus
	if len(args) > 0 {
		s, err := entities.ParseProjectStatus(strings.ToLower(args[0]))
		if err != nil {
			return "", fmt.Errorf("%w: status must be one of %v", err, entities.ProjectStatuses)
		}
		status = s
	}
	projects, err := r.brew.ListProjects(ctx, status)
	if err != nil {
		return "", err
	}
	return usecases.FormatProjects(projects), nil
}

func (r *CommandRouter) handleProject(ctx context.Context, chatID int64, args []string) (string, error) {
	if len(args) != 1 {
		return "", usageError(r.commands["project"].usage)
	}
	id, err := parseID(args[0])
	if err != nil {
		return "", err
	}
	p, err := r.brew.GetProject(ctx, id)
	if err != nil {
		return "", err
	}
	return usecases.FormatProject(p), nil
}

func (r *CommandRouter) handleNewProject(ctx context.Context, chatID int64, args []string) (string, error) {
	words, opts := splitOptions(args)
	name := strings.Join(words, " ")

	if v, ok := opts["recipe"]; ok {
		recipeID, err := parseID(v)
		if err != nil {
			return "", err
		}
		p, err := r.brew.StartProjectFromRecipe(ctx, recipeID, name)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("🧪 Started %s (#%d) from recipe #%d. Next: %s", usecases.DisplayName(p.Name), p.ID, recipeID, p.NextAction), nil
	}

	if name == "" {
		return "", usageError(r.commands["newproject"].usage)
	}
	p := &entities.Project{
		Name:     name,
		Beverage: entities.BeverageType(strings.ToLower(opts["beverage"])),
		Style:    opts["style"],
	}
	if v, ok := opts["gal"]; ok {
		var err error
		if p.BatchGallons, err = parseFloat(v, "gal"); err != nil {
			return "", err
		}
	}
	if err := r.brew.CreateProject(ctx, p); err != nil {
		return "", err
	}
	return fmt.Sprintf("🧪 Created %s (#%d), status %s", usecases.DisplayName(p.Name), p.ID, p.Status), nil
}

func (r *CommandRouter) handleStatus(ctx context.Context, chatID int64, args []string) (string, error) {
	if len(args) != 2 {
		return "", usageError(r.commands["status"].usage)
	}
	id, err := parseID(args[0])
	if err != nil {
		return "", err
	}
	status, err := entities.ParseProjectStatus(strings.ToLower(args[1]))
	if err != nil {
		return "", fmt.Errorf("%w: status must be one of %v", err, entities.ProjectStatuses)
	}
	p, err := r.brew.SetProjectStatus(ctx, id, status)
	if err != nil {
		return "", err
	}
	reply := fmt.Sprintf("🧪 %s is now %s.", usecases.DisplayName(p.Name), p.Status)
	if p.NextActionAt != nil {
		reply += fmt.Sprintf(" I'll remind you to %s on %s.", strings.ToLower(p.NextAction), p.NextActionAt.Local().Format("2006-01-02"))
	}
	return reply, nil
}

func (r *CommandRouter) handleReading(ctx context.Context, chatID int64, args []string) (string, error) {
	if len(args) < 2 || len(args) > 3 {
		return "", usageError(r.commands["reading"].usage)
	}
	id, err := parseID(args[0])
	if err != nil {
		return "", err
	}
	sg, err := parseFloat(args[1], "sg")
	if err != nil {
		return "", err
	}
	if len(args) == 3 {
		temp, err := parseFloat(args[2], "temperature")
		if err != nil {
			return "", err
		}
		sg = calculator.HydrometerCorrection(sg, temp, calculator.DefaultCalibrationF)
	}

	p, err := r.brew.RecordReading(ctx, id, sg)
	if err != nil {
		return "", err
	}
	reply := fmt.Sprintf("📝 Recorded %.3f for %s.", sg, usecases.DisplayName(p.Name))
	if p.HasGravities() {
		reply += fmt.Sprintf(" ABV so far: %.2f%%, attenuation %.1f%%.",
			calculator.ABV(p.OG, p.FG), calculator.Attenuation(p.OG, p.FG))
	}
	return reply, nil
}

func (r *CommandRouter) handleDeleteProject(ctx context.Context, chatID int64, args []string) (string, error) {
	if len(args) != 1 {
		return "", usageError(r.commands["delproject"].usage)
	}
	id, err := parseID(args[0])
	if err != nil {
		return "", err
	}
	if err := r.brew.DeleteProject(ctx, id); err != nil {
		return "", err
	}
	return fmt.Sprintf("🗑 Deleted project #%d.", id), nil
}

func (r *CommandRouter) handleStats(ctx context.Context, chatID int64, args []string) (string, error) {
	stats, err := r.brew.GetStats(ctx)
	if err != nil {
		return "", err
	}
	return usecases.FormatStats(stats), nil
}
