package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/amonks/tix/internal/editor"
	"github.com/amonks/tix/internal/listflags"
	internalstrings "github.com/amonks/tix/internal/strings"
	"github.com/amonks/tix/internal/ui"
	"github.com/amonks/tix/ticket"
	"github.com/amonks/tix/tracker"
	"github.com/spf13/cobra"
)

// create
var createCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create a new ticket",
	Long: `Create a new ticket.

By default, opens $EDITOR to edit a TOML representation of the ticket
when running interactively and neither a title nor flags are given. Use
--no-edit to skip the editor, or --edit to force opening the editor even
when not interactive.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCreate,
}

var (
	createDescription string
	createStatus      string
	createPriority    string
	createType        string
	createPrivacy     string
	createEdit        bool
	createNoEdit      bool
)

// show
var showCmd = &cobra.Command{
	Use:   "show <id>...",
	Short: "Show detailed information about tickets",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runShow,
}

// list
var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "search"},
	Short:   "List tickets",
	Long: `List tickets matching every given filter, in creation order.

Archived tickets are hidden unless --all or --status is given.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var (
	listStatus   string
	listPriority string
	listType     string
	listPrivacy  string
	listQuery    string
	listIn       string
	listLimit    int
	listAll      bool
)

// update
var updateCmd = &cobra.Command{
	Use:   "update <id>...",
	Short: "Update one or more tickets",
	Long: `Update one or more tickets.

By default, opens $EDITOR to edit a TOML representation of the ticket
when running interactively and no update flags are provided (one editor
session per ID). Use --no-edit to skip the editor, or --edit to force
opening the editor even when not interactive.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpdate,
}

var (
	updateTitle       string
	updateDescription string
	updateStatus      string
	updatePriority    string
	updateType        string
	updatePrivacy     string
	updateEdit        bool
	updateNoEdit      bool
)

// edit
var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a ticket in $EDITOR",
	Args:  cobra.ExactArgs(1),
	RunE:  runEdit,
}

// priority
var priorityCmd = &cobra.Command{
	Use:   "priority <id> <priority>",
	Short: "Change a ticket's priority",
	Args:  cobra.ExactArgs(2),
	RunE:  runPriority,
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) == 1 {
			return names(ticket.ValidPriorities()), cobra.ShellCompDirectiveNoFileComp
		}
		return nil, cobra.ShellCompDirectiveNoFileComp
	},
}

// start
var startCmd = &cobra.Command{
	Use:   "start <id>...",
	Short: "Mark one or more tickets as in progress",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runStart,
}

// complete
var completeCmd = &cobra.Command{
	Use:   "complete <id>...",
	Short: "Mark one or more tickets as completed",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runComplete,
}

// archive
var archiveCmd = &cobra.Command{
	Use:   "archive <id>...",
	Short: "Archive one or more tickets",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runArchive,
}

// delete
var deleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete one or more tickets permanently",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDelete,
}

func init() {
	rootCmd.AddCommand(createCmd, showCmd, listCmd, updateCmd, editCmd, priorityCmd,
		startCmd, completeCmd, archiveCmd, deleteCmd)

	// create flags
	createCmd.Flags().StringVarP(&createDescription, "description", "d", "", "Description (use '-' to read from stdin)")
	addStatusFlag(createCmd, &createStatus, "Initial status")
	addPriorityFlag(createCmd, &createPriority, "Priority")
	addTypeFlag(createCmd, &createType, "Ticket type")
	addPrivacyFlag(createCmd, &createPrivacy, "Privacy")
	createCmd.Flags().BoolVarP(&createEdit, "edit", "e", false, "Open $EDITOR (default if interactive)")
	createCmd.Flags().BoolVar(&createNoEdit, "no-edit", false, "Do not open $EDITOR")

	// list flags
	addStatusFlag(listCmd, &listStatus, "Filter by status")
	addPriorityFlag(listCmd, &listPriority, "Filter by priority")
	addTypeFlag(listCmd, &listType, "Filter by type")
	addPrivacyFlag(listCmd, &listPrivacy, "Filter by privacy")
	listCmd.Flags().StringVarP(&listQuery, "query", "q", "", "Case-insensitive text to find")
	listCmd.Flags().StringVar(&listIn, "in", "", "Comma-separated fields the query applies to (title, description)")
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 0, "Maximum number of tickets to show")
	listflags.AddAllFlag(listCmd, &listAll)

	// update flags
	updateCmd.Flags().StringVar(&updateTitle, "title", "", "New title")
	updateCmd.Flags().StringVarP(&updateDescription, "description", "d", "", "New description (use '-' to read from stdin)")
	addStatusFlag(updateCmd, &updateStatus, "New status")
	addPriorityFlag(updateCmd, &updatePriority, "New priority")
	addTypeFlag(updateCmd, &updateType, "New type")
	addPrivacyFlag(updateCmd, &updatePrivacy, "New privacy")
	updateCmd.Flags().BoolVarP(&updateEdit, "edit", "e", false, "Open $EDITOR (default if interactive)")
	updateCmd.Flags().BoolVar(&updateNoEdit, "no-edit", false, "Do not open $EDITOR")

	addTicketFlagAliases(createCmd, listCmd, updateCmd)
}

func resolveDescriptionFromStdin(description string, reader io.Reader) (string, error) {
	if description != "-" {
		return description, nil
	}

	input, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read description from stdin: %w", err)
	}

	value := strings.TrimRight(string(input), "\r\n")
	return value, nil
}

func runCreate(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("description") {
		desc, err := resolveDescriptionFromStdin(createDescription, cmd.InOrStdin())
		if err != nil {
			return err
		}
		createDescription = desc
	}

	a, err := openApp()
	if err != nil {
		return err
	}

	hasFlags := len(args) > 0 || hasChangedFlags(cmd, "description", "status", "priority", "type", "privacy")
	req := tracker.CreateRequest{
		Description: createDescription,
		Status:      createStatus,
		Priority:    createPriority,
		Type:        createType,
		Privacy:     createPrivacy,
	}
	if len(args) > 0 {
		req.Title = args[0]
	}

	if shouldUseEditor(hasFlags, createEdit, createNoEdit, editor.IsInteractive()) {
		data := editor.DefaultCreateData(
			firstNonEmpty(createPriority, a.cfg.Tickets.DefaultPriority),
			firstNonEmpty(createType, a.cfg.Tickets.DefaultType),
			firstNonEmpty(createPrivacy, a.cfg.Tickets.DefaultPrivacy),
		)
		data.Title = req.Title
		data.Description = req.Description

		parsed, err := editor.EditTicketWithData(data)
		if err != nil {
			return err
		}
		status := req.Status
		req = parsed.ToCreateRequest()
		req.Status = status
	} else if len(args) == 0 {
		return fmt.Errorf("title is required (use --edit to open editor)")
	}

	created, err := a.svc.CreateTicket(req)
	if err != nil {
		return err
	}

	return printTicketResult(cmd, a, "Created ticket", created)
}

func runShow(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	format, err := a.format()
	if err != nil {
		return err
	}

	ids, err := a.svc.ResolveIDs(args)
	if err != nil {
		return err
	}

	items := make([]ticket.Ticket, 0, len(ids))
	for _, id := range ids {
		t, ok, err := a.svc.GetTicketByID(id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s", ticket.ErrNotFound, id)
		}
		items = append(items, t)
	}

	out := cmd.OutOrStdout()
	if format == formatJSON {
		return encodeJSON(out, items)
	}

	highlight, err := ticketHighlighter(a.svc)
	if err != nil {
		return err
	}
	if format == formatCompact {
		fmt.Fprint(out, formatTicketCompact(items, highlight))
		return nil
	}
	now := time.Now()
	for i, t := range items {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprint(out, formatTicketDetail(t, highlight, now))
	}
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	format, err := a.format()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("limit") && listLimit < 0 {
		return fmt.Errorf("--limit must not be negative")
	}

	all, err := a.svc.ListTickets()
	if err != nil {
		return err
	}
	// The limit applies after archived tickets are hidden.
	matched, err := a.svc.SearchTickets(tracker.SearchRequest{
		Status:   listStatus,
		Priority: listPriority,
		Type:     listType,
		Privacy:  listPrivacy,
		Query:    listQuery,
		Fields:   internalstrings.SplitList(listIn),
	})
	if err != nil {
		return err
	}

	hideArchived := listflags.HideArchived(listAll, listStatus)
	items := make([]ticket.Ticket, 0, len(matched))
	hasArchived := false
	for _, t := range matched {
		if hideArchived && t.Status == ticket.StatusArchived {
			hasArchived = true
			continue
		}
		items = append(items, t)
	}
	if cmd.Flags().Changed("limit") && len(items) > listLimit {
		items = items[:listLimit]
	}

	out := cmd.OutOrStdout()
	if format == formatJSON {
		return encodeJSON(out, items)
	}
	if len(items) == 0 {
		fmt.Fprintln(out, ticketEmptyListMessage(len(all), listStatus, listAll, hasArchived))
		return nil
	}

	highlight := logHighlighter(ticketIDPrefixLengths(all), ui.HighlightID)
	if format == formatCompact {
		fmt.Fprint(out, formatTicketCompact(items, highlight))
		return nil
	}
	fmt.Fprint(out, formatTicketTable(items, highlight, time.Now()))
	return nil
}

func runUpdate(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("description") {
		desc, err := resolveDescriptionFromStdin(updateDescription, cmd.InOrStdin())
		if err != nil {
			return err
		}
		updateDescription = desc
	}

	a, err := openApp()
	if err != nil {
		return err
	}

	ids, err := a.svc.ResolveIDs(args)
	if err != nil {
		return err
	}

	hasFlags := hasChangedFlags(cmd, "title", "description", "status", "priority", "type", "privacy")
	if shouldUseEditor(hasFlags, updateEdit, updateNoEdit, editor.IsInteractive()) {
		for _, id := range ids {
			if err := editTicket(cmd, a, id, func(data *editor.TicketData) {
				if cmd.Flags().Changed("title") {
					data.Title = updateTitle
				}
				if cmd.Flags().Changed("description") {
					data.Description = updateDescription
				}
				if cmd.Flags().Changed("status") {
					data.Status = updateStatus
				}
				if cmd.Flags().Changed("priority") {
					data.Priority = updatePriority
				}
				if cmd.Flags().Changed("type") {
					data.Type = updateType
				}
				if cmd.Flags().Changed("privacy") {
					data.Privacy = updatePrivacy
				}
			}); err != nil {
				return err
			}
		}
		return nil
	}

	if !hasFlags {
		return fmt.Errorf("at least one update flag is required (use --edit to open editor)")
	}

	req := tracker.UpdateRequest{
		Title:       changedString(cmd, "title", updateTitle),
		Description: changedString(cmd, "description", updateDescription),
		Status:      changedString(cmd, "status", updateStatus),
		Priority:    changedString(cmd, "priority", updatePriority),
		Type:        changedString(cmd, "type", updateType),
		Privacy:     changedString(cmd, "privacy", updatePrivacy),
	}
	return eachTicket(cmd, a, ids, "Updated", func(id string) (ticket.Ticket, error) {
		return a.svc.UpdateTicket(id, req)
	})
}

func runEdit(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	id, err := a.svc.ResolveID(args[0])
	if err != nil {
		return err
	}
	return editTicket(cmd, a, id, nil)
}

// editTicket runs one editor session for id. prefill may adjust the data
// shown in the editor; only fields that differ from the stored ticket are
// written back.
func editTicket(cmd *cobra.Command, a *app, id string, prefill func(*editor.TicketData)) error {
	existing, ok, err := a.svc.GetTicketByID(id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ticket.ErrNotFound, id)
	}

	original := editor.DataFromTicket(existing)
	data := original
	if prefill != nil {
		prefill(&data)
	}

	parsed, err := editor.EditTicketWithData(data)
	if err != nil {
		return err
	}

	updated, err := a.svc.UpdateTicket(id, parsed.ToUpdateRequest(original))
	if errors.Is(err, tracker.ErrNothingToUpdate) {
		fmt.Fprintf(cmd.OutOrStdout(), "No changes to %s\n", id)
		return nil
	}
	if err != nil {
		return err
	}
	return printTicketResult(cmd, a, "Updated", updated)
}

func runPriority(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	id, err := a.svc.ResolveID(args[0])
	if err != nil {
		return err
	}
	updated, err := a.svc.UpdateTicketPriority(id, args[1])
	if err != nil {
		return err
	}
	return printTicketResult(cmd, a, "Updated", updated)
}

func runStart(cmd *cobra.Command, args []string) error {
	return runTransition(cmd, args, "Started", func(svc *tracker.Service, id string) (ticket.Ticket, error) {
		return svc.StartTicket(id)
	})
}

func runComplete(cmd *cobra.Command, args []string) error {
	return runTransition(cmd, args, "Completed", func(svc *tracker.Service, id string) (ticket.Ticket, error) {
		return svc.CompleteTicket(id)
	})
}

func runArchive(cmd *cobra.Command, args []string) error {
	return runTransition(cmd, args, "Archived", func(svc *tracker.Service, id string) (ticket.Ticket, error) {
		return svc.ArchiveTicket(id)
	})
}

func runTransition(cmd *cobra.Command, args []string, verb string, fn func(*tracker.Service, string) (ticket.Ticket, error)) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	ids, err := a.svc.ResolveIDs(args)
	if err != nil {
		return err
	}
	return eachTicket(cmd, a, ids, verb, func(id string) (ticket.Ticket, error) {
		return fn(a.svc, id)
	})
}

func runDelete(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	ids, err := a.svc.ResolveIDs(args)
	if err != nil {
		return err
	}
	format, err := a.format()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, id := range ids {
		if err := a.svc.DeleteTicket(id); err != nil {
			return err
		}
		if format != formatJSON {
			fmt.Fprintf(out, "Deleted %s\n", id)
		}
	}
	if format == formatJSON {
		return encodeJSON(out, map[string][]string{"deleted": ids})
	}
	return nil
}

// eachTicket applies fn to every id in order, reporting each result. It
// stops at the first failure; earlier changes stay applied.
func eachTicket(cmd *cobra.Command, a *app, ids []string, verb string, fn func(id string) (ticket.Ticket, error)) error {
	format, err := a.format()
	if err != nil {
		return err
	}

	results := make([]ticket.Ticket, 0, len(ids))
	for _, id := range ids {
		t, err := fn(id)
		if err != nil {
			return err
		}
		results = append(results, t)
	}

	out := cmd.OutOrStdout()
	if format == formatJSON {
		return encodeJSON(out, results)
	}
	highlight, err := ticketHighlighter(a.svc)
	if err != nil {
		return err
	}
	for _, t := range results {
		fmt.Fprintf(out, "%s %s: %s\n", verb, highlight(t.ID), t.Title)
	}
	return nil
}

// printTicketResult reports a single created or changed ticket.
func printTicketResult(cmd *cobra.Command, a *app, verb string, t ticket.Ticket) error {
	format, err := a.format()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if format == formatJSON {
		return encodeJSON(out, t)
	}
	highlight, err := ticketHighlighter(a.svc)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s %s: %s\n", verb, highlight(t.ID), t.Title)
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
