package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"paratest/internal/config"
	"paratest/internal/domain"
)

// planEntry is one batch of the plan as listed in the viewer
type planEntry struct {
	suite domain.Suite
	batch int
}

// PlanViewer browses a plan's suites and batches in an interactive TUI
type PlanViewer struct {
	config *config.Config
}

// NewPlanViewer creates a new PlanViewer
func NewPlanViewer(cfg *config.Config) *PlanViewer {
	return &PlanViewer{config: cfg}
}

func planEntries(plan *domain.Plan) []planEntry {
	var entries []planEntry
	for _, s := range plan.Suites {
		for i := range s.Batches {
			entries = append(entries, planEntry{suite: s, batch: i})
		}
	}
	return entries
}

// View displays the plan. Left: one line per batch; right: the batch's units.
func (pv *PlanViewer) View(plan *domain.Plan) error {
	entries := planEntries(plan)
	if len(entries) == 0 {
		color.Yellow("Plan has no batches")
		return nil
	}

	app := tview.NewApplication()

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)
	for i, e := range entries {
		list.AddItem(batchLabel(e, i), "", 0, nil)
	}
	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan)

	statsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false)

	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	rightSide := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(statsView, 3, 0, false).
		AddItem(detailsView, 0, 1, false)

	flex := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(rightSide, 0, 2, false)

	var units int
	for _, s := range plan.Suites {
		units += s.UnitCount()
	}
	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true).
		SetText(fmt.Sprintf(" Plan %s (%d batches, %d units, max batch size %d) | ↑↓ navigate, → details, ← back, Ctrl+C exit ",
			shortID(plan.ID), len(entries), units, plan.MaxBatch))

	updateDetails := func(index int) {
		if index < 0 || index >= len(entries) {
			return
		}
		e := entries[index]
		statsView.SetText(fmt.Sprintf("[cyan]path:[white] [yellow]%s[white]\n[cyan]class:[white] [yellow]%s[white]",
			relativePath(pv.config.ProjectPath, e.suite.Path), e.suite.ClassName))
		detailsView.SetText(formatBatchDetails(e)).ScrollToBeginning()
	}

	list.SetChangedFunc(func(index int, mainText string, secondaryText string, shortcut rune) {
		updateDetails(index)
	})

	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})

	detailsView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyEsc:
			app.SetFocus(list)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})

	updateDetails(0)

	mainLayout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(flex, 0, 1, true)

	if err := app.SetRoot(mainLayout, true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// batchLabel is the list line for a batch, using tview color tags
func batchLabel(e planEntry, index int) string {
	name := e.suite.ClassName
	if i := strings.LastIndex(name, `\`); i >= 0 {
		name = name[i+1:]
	}
	return fmt.Sprintf("[yellow]%d.[white] %s [gray]#%d (%d)[white]", index+1, name, e.batch+1, len(e.suite.Batches[e.batch]))
}

// formatBatchDetails lists a batch's units in execution order
func formatBatchDetails(e planEntry) string {
	var b strings.Builder
	batch := e.suite.Batches[e.batch]
	fmt.Fprintf(&b, "[green]Batch %d of %d[white] (%d units)\n\n", e.batch+1, len(e.suite.Batches), len(batch))
	for i, u := range batch {
		fmt.Fprintf(&b, "[yellow]%3d.[white] %s\n", i+1, tview.Escape(string(u)))
	}
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	if id == "" {
		return "(unsaved)"
	}
	return id
}
