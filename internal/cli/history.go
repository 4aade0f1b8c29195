package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lanewise/snapgraph/pkg/history"
)

// =============================================================================
// log - List Versions
// =============================================================================

// logCommand creates the log command.
func (c *CLI) logCommand() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "log",
		Short: "List saved versions of the workspace",
		Long: `List saved versions of the workspace.

By default only the current timeline's chain is shown, newest first. With
--all, every timeline is listed the way the graph draws them: tip to root,
in timeline creation order.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLog(all)
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "list every timeline, not just the current one")

	return cmd
}

func (c *CLI) runLog(all bool) error {
	store, err := c.openStore()
	if err != nil {
		return fmt.Errorf("open workspace: %w", err)
	}

	printKeyValue("Workspace", store.Name())
	if store.Dirty() {
		printKeyValue("State", StyleWarning.Render("unsaved changes"))
	}
	printNewline()

	if all {
		return c.logAll(store)
	}

	recs := store.Versions()
	if len(recs) == 0 {
		printInfo("No versions yet")
		printNextStep("Save one", `snapgraph commit -m "First draft"`)
		return nil
	}

	cur, _ := store.Current()
	for _, rec := range recs {
		printVersionLine(rec, rec.ID == cur.ID)
	}
	return nil
}

// logAll prints every timeline's chain, mirroring the feed the graph is
// built from.
func (c *CLI) logAll(store *history.Store) error {
	feed := store.Feed()
	if len(feed.Nodes) == 0 {
		printInfo("No versions yet")
		printNextStep("Save one", `snapgraph commit -m "First draft"`)
		return nil
	}

	lastTimeline := ""
	for _, n := range feed.Nodes {
		if n.TimelineID != lastTimeline {
			label := n.TimelineID
			if tl, ok := feed.Timelines[n.TimelineID]; ok && tl.Label != "" {
				label = tl.Label
			}
			fmt.Println(StyleHighlight.Render(label))
			lastTimeline = n.TimelineID
		}
		rec, ok := store.Snapshot(n.ID)
		if !ok {
			continue
		}
		printVersionLine(rec, n.IsCurrent)
	}
	return nil
}

// printVersionLine prints one version in the log listing.
func printVersionLine(rec history.Record, current bool) {
	marker := "  "
	if current {
		marker = StyleSuccess.Render("* ")
	}

	id := StyleDim.Render(history.ShortID(rec.ID))
	msg := rec.Message
	if rec.Label != "" && rec.Label != rec.Message {
		msg = fmt.Sprintf("%s (%s)", msg, rec.Label)
	}
	when := StyleDim.Render(formatRelativeTime(rec.Time()))

	line := fmt.Sprintf("%s%s  %-40s %s", marker, id, msg, when)
	if current {
		line = StyleValue.Render(line)
	}
	fmt.Println(line)
}

// =============================================================================
// commit - Save a Version
// =============================================================================

// commitCommand creates the commit command.
func (c *CLI) commitCommand() *cobra.Command {
	var (
		message string
		label   string
		file    string
	)

	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Save the document as a new version",
		Long: `Save the document as a new version.

The document payload is read from --file, or from stdin when --file is "-".
Without --file the version records a point in history with no content.

Committing while rewound to an old version forks a new timeline from that
version; the old timeline keeps its history.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCommit(cmd.Context(), message, label, file)
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "version message")
	cmd.Flags().StringVar(&label, "label", "", "save as a named version; the label doubles as the message")
	cmd.Flags().StringVarP(&file, "file", "f", "", `document payload file ("-" for stdin)`)
	cmd.MarkFlagsOneRequired("message", "label")
	cmd.MarkFlagsMutuallyExclusive("message", "label")

	return cmd
}

func (c *CLI) runCommit(ctx context.Context, message, label, file string) error {
	store, err := c.openStore()
	if err != nil {
		return fmt.Errorf("open workspace: %w", err)
	}

	payload, err := readPayload(file)
	if err != nil {
		return err
	}

	var rec history.Record
	if label != "" {
		rec, err = store.SaveWithLabel(ctx, label, payload)
	} else {
		rec, err = store.Commit(ctx, message, payload)
	}
	if err != nil {
		return fmt.Errorf("save version: %w", err)
	}

	printSuccess("Saved version %s", history.ShortID(rec.ID))
	if rec.Label != "" {
		printDetail("label: %s", rec.Label)
	}
	printNewline()
	printNextStep("See the graph", "snapgraph render")
	return nil
}

// readPayload reads the document payload from a file or stdin. Arbitrary
// text is stored as a JSON string; JSON documents pass through unchanged.
func readPayload(file string) (json.RawMessage, error) {
	if file == "" {
		return nil, nil
	}

	var (
		data []byte
		err  error
	)
	if file == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	if !json.Valid(data) {
		data, err = json.Marshal(string(data))
		if err != nil {
			return nil, fmt.Errorf("encode payload: %w", err)
		}
	}
	return data, nil
}

// =============================================================================
// restore - Bring Back an Old Version
// =============================================================================

// restoreCommand creates the restore command.
func (c *CLI) restoreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <id>",
		Short: "Restore an old version as a new snapshot",
		Long: `Restore an old version as a new snapshot.

The old version's content is committed on top of the current timeline and
becomes current. History is never rewritten: the restored-from version stays
where it was.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRestore(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) runRestore(ctx context.Context, arg string) error {
	store, err := c.openStore()
	if err != nil {
		return fmt.Errorf("open workspace: %w", err)
	}

	id, err := resolveSnapshotID(store, arg)
	if err != nil {
		return err
	}

	rec, err := store.Restore(ctx, id)
	if err != nil {
		return fmt.Errorf("restore: %w", err)
	}

	printSuccess("%s", rec.Message)
	printDetail("new version: %s", history.ShortID(rec.ID))
	return nil
}

// =============================================================================
// activate - Switch the Current Version
// =============================================================================

// activateCommand creates the activate command.
func (c *CLI) activateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "activate <id>",
		Short: "Make a version the current one",
		Long: `Make a version the current one.

Activating moves the current marker without writing a new snapshot. The
workspace also switches to the version's timeline, so later commits extend
that line of work.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runActivate(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) runActivate(ctx context.Context, arg string) error {
	store, err := c.openStore()
	if err != nil {
		return fmt.Errorf("open workspace: %w", err)
	}

	id, err := resolveSnapshotID(store, arg)
	if err != nil {
		return err
	}

	wasCurrent, err := store.Activate(ctx, id)
	if err != nil {
		return fmt.Errorf("activate: %w", err)
	}

	if wasCurrent {
		printInfo("Version %s is already current", history.ShortID(id))
		return nil
	}
	printSuccess("Now at version %s", history.ShortID(id))
	return nil
}

// =============================================================================
// preview - Look Without Moving
// =============================================================================

// previewCommand creates the preview command.
func (c *CLI) previewCommand() *cobra.Command {
	var clear bool

	cmd := &cobra.Command{
		Use:   "preview [id]",
		Short: "Preview an old version without making it current",
		Long: `Preview an old version without making it current.

Previewing marks the version as the one being viewed; the graph shows
unsaved changes as a ghost row while a past version is viewed. Use --clear
to return to the current version.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if clear {
				return c.runClearPreview(cmd.Context())
			}
			if len(args) != 1 {
				return fmt.Errorf("a version id is required unless --clear is given")
			}
			return c.runPreview(cmd.Context(), args[0])
		},
	}

	cmd.Flags().BoolVar(&clear, "clear", false, "stop previewing and return to the current version")

	return cmd
}

func (c *CLI) runPreview(ctx context.Context, arg string) error {
	store, err := c.openStore()
	if err != nil {
		return fmt.Errorf("open workspace: %w", err)
	}

	id, err := resolveSnapshotID(store, arg)
	if err != nil {
		return err
	}

	rec, err := store.Preview(ctx, id)
	if err != nil {
		return fmt.Errorf("preview: %w", err)
	}

	printSuccess("Previewing version %s", history.ShortID(rec.ID))
	if rec.Message != "" {
		printDetail("%s", rec.Message)
	}
	printNextStep("Return", "snapgraph preview --clear")
	return nil
}

func (c *CLI) runClearPreview(ctx context.Context) error {
	store, err := c.openStore()
	if err != nil {
		return fmt.Errorf("open workspace: %w", err)
	}

	if err := store.ClearPreview(ctx); err != nil {
		return fmt.Errorf("clear preview: %w", err)
	}
	printSuccess("Preview cleared")
	return nil
}

// =============================================================================
// fork - Start a Timeline
// =============================================================================

// forkCommand creates the fork command.
func (c *CLI) forkCommand() *cobra.Command {
	var label string

	cmd := &cobra.Command{
		Use:   "fork <id>",
		Short: "Start a new timeline from a version",
		Long: `Start a new timeline from a version.

The new timeline begins at the given version and becomes the workspace's
current timeline; the next commit lands on it. The forked-from timeline is
untouched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFork(cmd.Context(), args[0], label)
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "display label for the new timeline")

	return cmd
}

func (c *CLI) runFork(ctx context.Context, arg, label string) error {
	store, err := c.openStore()
	if err != nil {
		return fmt.Errorf("open workspace: %w", err)
	}

	id, err := resolveSnapshotID(store, arg)
	if err != nil {
		return err
	}

	tl, err := store.Fork(ctx, id, label)
	if err != nil {
		return fmt.Errorf("fork: %w", err)
	}

	name := tl.Label
	if name == "" {
		name = tl.ID
	}
	printSuccess("Forked timeline %q from version %s", name, history.ShortID(id))
	printNewline()
	printNextStep("Save onto it", `snapgraph commit -m "..."`)
	return nil
}

// =============================================================================
// Helpers
// =============================================================================

// resolveSnapshotID resolves a possibly-abbreviated snapshot id. Exact
// matches win; otherwise a unique id prefix is accepted.
func resolveSnapshotID(store *history.Store, arg string) (string, error) {
	if _, ok := store.Snapshot(arg); ok {
		return arg, nil
	}

	// The feed repeats shared snapshots across timelines; dedupe before
	// judging ambiguity.
	seen := make(map[string]bool)
	var matches []string
	for _, n := range store.Feed().Nodes {
		if !strings.HasPrefix(n.ID, arg) || seen[n.ID] {
			continue
		}
		seen[n.ID] = true
		matches = append(matches, n.ID)
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no version matches %q", arg)
	case 1:
		return matches[0], nil
	default:
		short := make([]string, len(matches))
		for i, id := range matches {
			short[i] = history.ShortID(id)
		}
		return "", fmt.Errorf("%q is ambiguous: matches %s", arg, strings.Join(short, ", "))
	}
}
