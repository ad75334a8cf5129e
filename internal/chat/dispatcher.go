package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"sync"

	"bulletquest/internal/engine"
	"bulletquest/internal/motivation"
	"bulletquest/internal/storage"
)

// Engine is the slice of the lifecycle engine the commands drive.
type Engine interface {
	Register(ctx context.Context, userID int64) (*storage.Profile, error)
	Profile(ctx context.Context, userID int64) (*engine.ProfileView, error)
	Rename(ctx context.Context, userID int64, name string) error
	RenameKingdom(ctx context.Context, userID int64, name string) error
	CreateArea(ctx context.Context, name string) (*storage.Area, error)
	CreateMission(ctx context.Context, in engine.CreateMissionInput) (*storage.Mission, error)
	AssignRandomMission(ctx context.Context, userID int64) (*storage.Mission, error)
	CompleteMission(ctx context.Context, userID int64, description string) (*engine.MissionResult, error)
	ListPendingMissions(ctx context.Context, userID int64) ([]storage.Mission, error)
	AddTask(ctx context.Context, in engine.AddTaskInput) (*storage.Task, error)
	CompleteTask(ctx context.Context, in engine.CompleteTaskInput) (*engine.TaskResult, error)
	Status(ctx context.Context, userID int64) (*engine.Snapshot, error)
}

type command struct {
	names   []string
	usage   string
	summary string
	run     func(d *Dispatcher, ctx context.Context, msg Message, args string) (string, error)
}

// usageError is a malformed command; the reply shows the usage line.
type usageError struct{ usage string }

func (e usageError) Error() string { return "usage: " + e.usage }

// commands is filled in init: the help command reads it.
var (
	commands     []command
	commandIndex map[string]*command
)

func init() {
	commands = []command{
		{[]string{"start"}, "/start", "register and get started", (*Dispatcher).start},
		{[]string{"perfil", "profile"}, "/perfil", "show your profile and rank", (*Dispatcher).profile},
		{[]string{"set_nombre"}, "/set_nombre <name>", "rename your hero", (*Dispatcher).setName},
		{[]string{"set_reino"}, "/set_reino <name>", "rename your kingdom", (*Dispatcher).setKingdom},
		{[]string{"agregar_area"}, "/agregar_area <name>", "create a life area", (*Dispatcher).addArea},
		{[]string{"agregar_mision"}, "/agregar_mision [area] <low|medium|high> <description>", "add a mission", (*Dispatcher).addMission},
		{[]string{"mision"}, "/mision", "get a random mission", (*Dispatcher).randomMission},
		{[]string{"completar", "completar_mision"}, "/completar <mission>", "complete a mission", (*Dispatcher).completeMission},
		{[]string{"misiones"}, "/misiones", "list pending missions", (*Dispatcher).listMissions},
		{[]string{"agregar_tarea"}, "/agregar_tarea <mission> | <task> | [days]", "add a task to a mission", (*Dispatcher).addTask},
		{[]string{"completar_tarea"}, "/completar_tarea [mission |] <task>", "complete a task", (*Dispatcher).completeTask},
		{[]string{"status"}, "/status", "show your kingdom at a glance", (*Dispatcher).status},
		{[]string{"motivacion"}, "/motivacion", "get a word of encouragement", (*Dispatcher).motivate},
		{[]string{"help", "ayuda"}, "/help", "list commands", (*Dispatcher).help},
	}
	commandIndex = make(map[string]*command)
	for i := range commands {
		for _, n := range commands[i].names {
			commandIndex[n] = &commands[i]
		}
	}
}

// Dispatcher routes parsed commands to the engine. Commands for the same chat
// run one at a time.
type Dispatcher struct {
	engine    Engine
	motivator motivation.Motivator
	logger    *log.Logger

	locks sync.Map // chat id -> *sync.Mutex

	// BotName, when set, makes the dispatcher ignore commands addressed to
	// another bot ("/status@otherbot").
	BotName string
}

func NewDispatcher(e Engine, m motivation.Motivator, logger *log.Logger) *Dispatcher {
	if m == nil {
		m = motivation.Fallback{}
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Dispatcher{engine: e, motivator: m, logger: logger}
}

func (d *Dispatcher) Handle(ctx context.Context, msg Message) string {
	name, bot, args := parseCommand(msg.Text)
	if bot != "" && !d.addressedToMe(bot) {
		return ""
	}
	if name == "" {
		return "Send /help to see what I can do."
	}
	cmd, ok := commandIndex[name]
	if !ok {
		return fmt.Sprintf("Unknown command %q. Send /help to see what I can do.", name)
	}

	mu := d.lockFor(msg.ChatID)
	mu.Lock()
	defer mu.Unlock()

	reply, err := cmd.run(d, ctx, msg, args)
	if err != nil {
		return d.renderError(msg, name, err)
	}
	return reply
}

func (d *Dispatcher) addressedToMe(bot string) bool {
	return d.BotName == "" || strings.EqualFold(strings.TrimPrefix(d.BotName, "@"), bot)
}

func (d *Dispatcher) lockFor(chatID int64) *sync.Mutex {
	v, _ := d.locks.LoadOrStore(chatID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

func (d *Dispatcher) renderError(msg Message, name string, err error) string {
	var (
		usage       usageError
		validation  engine.ValidationError
		notFound    engine.NotFoundError
		conflict    engine.ConflictError
		unavailable engine.StorageUnavailableError
	)
	switch {
	case errors.As(err, &usage):
		return "✏️ " + usage.Error()
	case errors.As(err, &validation):
		return "⚠️ " + validation.Error()
	case errors.As(err, &notFound):
		return "🔍 " + capitalize(notFound.Error())
	case errors.As(err, &conflict):
		return "⚠️ " + capitalize(conflict.Error())
	case errors.As(err, &unavailable):
		d.logger.Printf("warning: chat %d /%s: %v", msg.ChatID, name, err)
		return "🧨 The kingdom archives are unavailable right now. Please try again in a moment."
	default:
		d.logger.Printf("error: chat %d /%s: %v", msg.ChatID, name, err)
		return "🧨 Something went wrong. Please try again."
	}
}

func (d *Dispatcher) start(ctx context.Context, msg Message, _ string) (string, error) {
	p, err := d.engine.Register(ctx, msg.ChatID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Welcome to your Bullet Journal, %s! 🎯 I will hand you missions and keep track of your XP.\nSend /help to see the commands.", p.Name), nil
}

func (d *Dispatcher) profile(ctx context.Context, msg Message, _ string) (string, error) {
	v, err := d.engine.Profile(ctx, msg.ChatID)
	if err != nil {
		return "", err
	}
	return formatProfile(v), nil
}

func (d *Dispatcher) setName(ctx context.Context, msg Message, args string) (string, error) {
	if args == "" {
		return "", usageError{"/set_nombre <name>"}
	}
	if err := d.engine.Rename(ctx, msg.ChatID, args); err != nil {
		return "", err
	}
	return fmt.Sprintf("🛡️ From now on you are %s.", args), nil
}

func (d *Dispatcher) setKingdom(ctx context.Context, msg Message, args string) (string, error) {
	if args == "" {
		return "", usageError{"/set_reino <name>"}
	}
	if err := d.engine.RenameKingdom(ctx, msg.ChatID, args); err != nil {
		return "", err
	}
	return fmt.Sprintf("🏰 Your kingdom is now called %s.", args), nil
}

func (d *Dispatcher) addArea(ctx context.Context, _ Message, args string) (string, error) {
	if args == "" {
		return "", usageError{"/agregar_area <name>"}
	}
	a, err := d.engine.CreateArea(ctx, args)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("🌱 Area %s is ready (health %d).", a.Name, a.Health), nil
}

// addMission accepts "[area] priority description" or, for multi-word area
// names, "area | priority | description".
func (d *Dispatcher) addMission(ctx context.Context, msg Message, args string) (string, error) {
	const usage = "/agregar_mision [area] <low|medium|high> <description>"
	in := engine.CreateMissionInput{UserID: msg.ChatID}

	var prio string
	if strings.Contains(args, "|") {
		parts := splitPipe(args)
		switch len(parts) {
		case 2:
			prio, in.Description = parts[0], parts[1]
		case 3:
			in.AreaName, prio, in.Description = parts[0], parts[1], parts[2]
		default:
			return "", usageError{usage}
		}
	} else {
		fields := strings.Fields(args)
		if len(fields) < 2 {
			return "", usageError{usage}
		}
		if engine.IsPriority(fields[0]) {
			prio, in.Description = fields[0], strings.Join(fields[1:], " ")
		} else {
			if len(fields) < 3 || !engine.IsPriority(fields[1]) {
				return "", usageError{usage}
			}
			in.AreaName, prio, in.Description = fields[0], fields[1], strings.Join(fields[2:], " ")
		}
	}

	p, err := engine.ParsePriority(prio)
	if err != nil {
		return "", engine.ValidationError{Field: "priority", Reason: err.Error()}
	}
	in.Priority = p

	m, err := d.engine.CreateMission(ctx, in)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("📜 Mission added: %s [%s] due %s.", m.Description, describeMission(in.AreaName, p), formatTime(m.Deadline)), nil
}

func (d *Dispatcher) randomMission(ctx context.Context, msg Message, _ string) (string, error) {
	m, err := d.engine.AssignRandomMission(ctx, msg.ChatID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("🗺️ Your mission: %s\nPriority %s, due %s.", m.Description, engine.Priority(m.Priority), formatTime(m.Deadline)), nil
}

func (d *Dispatcher) completeMission(ctx context.Context, msg Message, args string) (string, error) {
	if args == "" {
		return "", usageError{"/completar <mission>"}
	}
	res, err := d.engine.CompleteMission(ctx, msg.ChatID, args)
	if err != nil {
		return "", err
	}
	return formatMissionResult(res), nil
}

func (d *Dispatcher) listMissions(ctx context.Context, msg Message, _ string) (string, error) {
	list, err := d.engine.ListPendingMissions(ctx, msg.ChatID)
	if err != nil {
		return "", err
	}
	if len(list) == 0 {
		return "🎉 You have no pending missions!", nil
	}
	var b strings.Builder
	b.WriteString("📜 Your pending missions:")
	for _, m := range list {
		fmt.Fprintf(&b, "\n- %s (%s, due %s)", m.Description, engine.Priority(m.Priority), formatTime(m.Deadline))
	}
	return b.String(), nil
}

func (d *Dispatcher) addTask(ctx context.Context, msg Message, args string) (string, error) {
	const usage = "/agregar_tarea <mission> | <task> | [days]"
	parts := splitPipe(args)
	if len(parts) < 2 || len(parts) > 3 {
		return "", usageError{usage}
	}
	in := engine.AddTaskInput{UserID: msg.ChatID, Mission: parts[0], Description: parts[1]}
	if len(parts) == 3 && parts[2] != "" {
		days, err := strconv.Atoi(parts[2])
		if err != nil {
			return "", engine.ValidationError{Field: "days", Reason: "must be a whole number"}
		}
		in.DaysUntilDue = days
	}

	t, err := d.engine.AddTask(ctx, in)
	if err != nil {
		return "", err
	}
	due := "no deadline"
	if t.Deadline != nil {
		due = "due " + formatTime(*t.Deadline)
	}
	return fmt.Sprintf("📝 Task added to %s: %s (%d XP, %s).", in.Mission, t.Description, t.XP, due), nil
}

func (d *Dispatcher) completeTask(ctx context.Context, msg Message, args string) (string, error) {
	const usage = "/completar_tarea [mission |] <task>"
	parts := splitPipe(args)
	in := engine.CompleteTaskInput{UserID: msg.ChatID}
	switch len(parts) {
	case 1:
		in.Description = parts[0]
	case 2:
		in.Mission, in.Description = parts[0], parts[1]
	default:
		return "", usageError{usage}
	}
	if in.Description == "" {
		return "", usageError{usage}
	}

	res, err := d.engine.CompleteTask(ctx, in)
	if err != nil {
		return "", err
	}
	return formatTaskResult(res), nil
}

func (d *Dispatcher) status(ctx context.Context, msg Message, _ string) (string, error) {
	snap, err := d.engine.Status(ctx, msg.ChatID)
	if err != nil {
		return "", err
	}
	return FormatSnapshot(snap), nil
}

func (d *Dispatcher) motivate(ctx context.Context, msg Message, _ string) (string, error) {
	prompt := motivation.Prompt{Name: engine.DefaultProfileName, Rank: string(engine.RankNovice)}
	snap, err := d.engine.Status(ctx, msg.ChatID)
	var nf engine.NotFoundError
	switch {
	case err == nil:
		prompt = motivation.Prompt{
			Name:            snap.Name,
			Rank:            string(snap.Rank),
			PendingMissions: len(snap.ActiveMissions),
			Zombies:         snap.Zombies(),
		}
	case errors.As(err, &nf):
	default:
		return "", err
	}

	text, err := d.motivator.Motivate(ctx, prompt)
	if err != nil {
		return "", err
	}
	return "🔥 " + text, nil
}

func (d *Dispatcher) help(context.Context, Message, string) (string, error) {
	var b strings.Builder
	b.WriteString("📖 Commands:")
	for _, c := range commands {
		fmt.Fprintf(&b, "\n%s - %s", c.usage, c.summary)
	}
	return b.String(), nil
}
