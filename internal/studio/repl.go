package studio

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/ekisa-team/voicestudio/internal/catalog"
	"github.com/ekisa-team/voicestudio/internal/playback"
)

const prompt = "studio> "

const helpText = `Commands:
  languages                 list supported languages
  lang <code>               select a language ("auto" to detect)
  voices                    list voices for the selected language
  voice <n|id>              select a voice by list number or id
  text <script>             replace the script
  stability <0..1>          set stability
  similarity <0..1>         set similarity boost
  style <0..1>              set style exaggeration
  latency <0|1|2|off>       set streaming latency optimization
  model <id|off>            request a specific model
  show                      print the current form
  say                       render and play the script
  replay [n]                replay the last clip or history entry n
  pause                     pause playback
  history                   list recent renders
  help                      show this help
  quit                      leave the studio
`

// REPL is a line-oriented front end for a Session.
type REPL struct {
	session *Session
	out     io.Writer
}

// NewREPL creates a REPL writing to out.
func NewREPL(session *Session, out io.Writer) *REPL {
	return &REPL{session: session, out: out}
}

// Run reads commands from in until quit, EOF or ctx is done.
func (r *REPL) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64<<10), 1<<20)

	fmt.Fprint(r.out, prompt)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}

		quit, err := r.Exec(ctx, scanner.Text())
		if err != nil {
			fmt.Fprintf(r.out, "error: %s\n", describe(err))
		}
		if quit {
			return nil
		}
		fmt.Fprint(r.out, prompt)
	}

	return scanner.Err()
}

// Exec runs a single command line. It reports whether the user asked to quit.
func (r *REPL) Exec(ctx context.Context, line string) (bool, error) {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case "":
		return false, nil
	case "quit", "exit":
		return true, nil
	case "help":
		fmt.Fprint(r.out, helpText)
	case "languages":
		r.printLanguages()
	case "lang":
		if err := r.session.SetLanguage(arg); err != nil {
			return false, err
		}
		r.printForm()
	case "voices":
		return false, r.printVoices(ctx)
	case "voice":
		return false, r.selectVoice(arg)
	case "text":
		r.session.SetText(arg)
		fmt.Fprintf(r.out, "script set (%d/%d characters)\n", len([]rune(arg)), r.session.TextLimit())
	case "stability", "similarity", "style":
		return false, r.setSlider(cmd, arg)
	case "latency":
		return false, r.setLatency(arg)
	case "model":
		if arg == "off" {
			arg = ""
		}
		r.session.SetModel(arg)
		fmt.Fprintf(r.out, "script limit is now %d characters\n", r.session.TextLimit())
	case "show":
		r.printForm()
	case "say":
		return false, r.say(ctx)
	case "replay":
		return false, r.replay(ctx, arg)
	case "pause":
		r.session.Pause()
		fmt.Fprintln(r.out, "paused")
	case "history":
		r.printHistory()
	default:
		return false, fmt.Errorf("unknown command %q, type help", cmd)
	}

	return false, nil
}

func (r *REPL) printLanguages() {
	tw := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\n", catalog.AutoDetect, "Auto-detect")
	for _, l := range catalog.Languages() {
		fmt.Fprintf(tw, "%s\t%s\n", l.Code, l.Label)
	}
	_ = tw.Flush()
}

func (r *REPL) printVoices(ctx context.Context) error {
	if err := r.session.LoadVoices(ctx); err != nil {
		return err
	}

	current := r.session.Form().VoiceID
	tw := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	for i, v := range r.session.Voices() {
		marker := " "
		if v.ID == current {
			marker = "*"
		}
		fmt.Fprintf(tw, "%s%d\t%s\t%s\t%s\n", marker, i+1, v.Name, v.LanguageCode, v.Accent)
	}
	return tw.Flush()
}

func (r *REPL) selectVoice(arg string) error {
	if arg == "" {
		return errors.New("usage: voice <n|id>")
	}

	voices := r.session.Voices()
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(voices) {
			return fmt.Errorf("voice %d is not in the list, run voices first", n)
		}
		r.session.SetVoice(voices[n-1].ID)
		fmt.Fprintf(r.out, "voice: %s\n", voices[n-1].Name)
		return nil
	}

	r.session.SetVoice(arg)
	fmt.Fprintf(r.out, "voice: %s\n", arg)
	return nil
}

func (r *REPL) setSlider(name, arg string) error {
	v, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return fmt.Errorf("usage: %s <0..1>", name)
	}

	switch name {
	case "stability":
		err = r.session.SetStability(v)
	case "similarity":
		err = r.session.SetSimilarityBoost(v)
	default:
		err = r.session.SetStyleExaggeration(v)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(r.out, "%s: %.2f\n", name, v)
	return nil
}

func (r *REPL) setLatency(arg string) error {
	if arg == "off" {
		return r.session.SetLatency(nil)
	}

	level, err := strconv.Atoi(arg)
	if err != nil {
		return errors.New("usage: latency <0|1|2|off>")
	}
	return r.session.SetLatency(&level)
}

func (r *REPL) say(ctx context.Context) error {
	fmt.Fprintln(r.out, "rendering...")

	item, outcome, err := r.session.Submit(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(r.out, "rendered %s with %s\n", item.ID[:8], item.VoiceName)
	r.printOutcome(outcome)
	return nil
}

func (r *REPL) replay(ctx context.Context, arg string) error {
	if arg == "" {
		r.printOutcome(r.session.Replay(ctx))
		return nil
	}

	n, err := strconv.Atoi(arg)
	items := r.session.History()
	if err != nil || n < 1 || n > len(items) {
		return fmt.Errorf("history entry %q does not exist", arg)
	}

	outcome, err := r.session.PlayHistory(ctx, items[n-1].ID)
	if err != nil {
		return err
	}
	r.printOutcome(outcome)
	return nil
}

func (r *REPL) printOutcome(o playback.Outcome) {
	switch o {
	case playback.OutcomePlayed:
		fmt.Fprintln(r.out, "playing")
	case playback.OutcomeBlocked:
		fmt.Fprintln(r.out, "playback was blocked, type replay to listen")
	default:
		fmt.Fprintln(r.out, "nothing to play")
	}
}

func (r *REPL) printForm() {
	f := r.session.Form()

	latency := "off"
	if f.OptimizeStreamingLatency != nil {
		latency = strconv.Itoa(*f.OptimizeStreamingLatency)
	}
	model := f.ModelID
	if model == "" {
		model = "default"
	}

	tw := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "language\t%s\n", f.Language)
	fmt.Fprintf(tw, "voice\t%s\n", f.VoiceID)
	fmt.Fprintf(tw, "stability\t%.2f\n", f.Stability)
	fmt.Fprintf(tw, "similarity\t%.2f\n", f.SimilarityBoost)
	fmt.Fprintf(tw, "style\t%.2f\n", f.StyleExaggeration)
	fmt.Fprintf(tw, "latency\t%s\n", latency)
	fmt.Fprintf(tw, "model\t%s\n", model)
	fmt.Fprintf(tw, "script\t%s (%d/%d)\n", f.Text, len([]rune(f.Text)), r.session.TextLimit())
	_ = tw.Flush()
}

func (r *REPL) printHistory() {
	items := r.session.History()
	if len(items) == 0 {
		fmt.Fprintln(r.out, "no renders yet")
		return
	}

	tw := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	for i, it := range items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, it.CreatedAt.Format(time.Kitchen), it.VoiceName, excerpt(it.Text, 40))
	}
	_ = tw.Flush()
}

// describe turns session errors into user-facing text.
func describe(err error) string {
	var perr *ProxyError
	switch {
	case errors.As(err, &perr):
		return perr.Message
	case errors.Is(err, ErrNoVoice):
		return "Please select a voice"
	case errors.Is(err, ErrEmptyText):
		return "Text is required"
	case errors.Is(err, ErrBusy):
		return "A render is already in progress"
	default:
		return err.Error()
	}
}

func excerpt(s string, n int) string {
	r := []rune(strings.Join(strings.Fields(s), " "))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-1]) + "…"
}
