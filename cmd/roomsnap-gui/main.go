package main

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
	"github.com/philipparndt/roomsnap/internal/app"
	"github.com/philipparndt/roomsnap/internal/config"
	"github.com/philipparndt/roomsnap/internal/logging"
	"github.com/philipparndt/roomsnap/internal/store"
	"github.com/philipparndt/roomsnap/pkg/analysis"
	"github.com/philipparndt/roomsnap/pkg/document"
	"github.com/philipparndt/roomsnap/pkg/geometry"
	"github.com/philipparndt/roomsnap/pkg/viewer"
)

type App struct {
	window  fyne.Window
	cfg     *config.Config
	store   *store.Store
	session *app.EditSession
	view    *viewer.DocumentView
	info    *EditInfo
}

type EditInfo struct {
	selectionLabel *widget.Label
	detailLabel    *widget.Label
	scaleLabel     *widget.Label
	historyLabel   *widget.Label
	statusLabel    *widget.Label
	summaryLabel   *widget.Label
}

func main() {
	configPath := os.Getenv("ROOMSNAP_CONFIG")
	if configPath == "" {
		configPath = "roomsnap.yaml"
	}
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if _, err := logging.Setup(cfg.Log.Level, cfg.Log.Format, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	st, err := store.Open(store.Options{
		DBPath:            cfg.Storage.DBPath,
		ImageDir:          cfg.Storage.ImageDir,
		MaxImageDimension: cfg.Storage.MaxImageDimension,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	a := fyneapp.New()
	w := a.NewWindow("RoomSnap - Offsite Editor")

	appInstance := &App{
		window: w,
		cfg:    cfg,
		store:  st,
	}

	// Open a capture directly when an id was given
	if len(os.Args) > 1 {
		appInstance.openDocument(os.Args[1])
	} else {
		appInstance.showWelcomeScreen()
	}

	w.Resize(fyne.NewSize(1200, 800))
	w.ShowAndRun()
}

func (a *App) showWelcomeScreen() {
	welcomeLabel := widget.NewLabel("Welcome to RoomSnap")
	welcomeLabel.TextStyle = fyne.TextStyle{Bold: true}

	entries, err := a.store.List(context.Background())
	if err != nil {
		dialog.ShowError(err, a.window)
	}

	var content fyne.CanvasObject
	if len(entries) == 0 {
		content = container.NewVBox(
			layout.NewSpacer(),
			container.NewCenter(welcomeLabel),
			container.NewCenter(widget.NewLabel("No captures yet. Run 'roomsnap capture' first.")),
			layout.NewSpacer(),
		)
	} else {
		list := widget.NewList(
			func() int { return len(entries) },
			func() fyne.CanvasObject { return widget.NewLabel("") },
			func(id widget.ListItemID, obj fyne.CanvasObject) {
				e := entries[id]
				obj.(*widget.Label).SetText(fmt.Sprintf("%s  %s", e.CapturedAt.Format("2006-01-02 15:04"), e.ID))
			},
		)
		list.OnSelected = func(id widget.ListItemID) {
			a.openDocument(entries[id].ID)
		}
		content = container.NewBorder(
			container.NewVBox(
				container.NewCenter(welcomeLabel),
				container.NewCenter(widget.NewLabel("Select a capture to edit")),
			),
			nil, nil, nil,
			list,
		)
	}

	a.window.SetContent(content)
}

func (a *App) openDocument(id string) {
	session, err := app.OpenSession(context.Background(), a.store, id, a.cfg.Editing())
	if err != nil {
		dialog.ShowError(err, a.window)
		a.showWelcomeScreen()
		return
	}
	a.session = session
	a.setupMainUI()
}

func (a *App) setupMainUI() {
	a.info = &EditInfo{
		selectionLabel: widget.NewLabel("Selection: none"),
		detailLabel:    widget.NewLabel(""),
		scaleLabel:     widget.NewLabel(""),
		historyLabel:   widget.NewLabel(""),
		statusLabel:    widget.NewLabel(""),
		summaryLabel:   widget.NewLabel(""),
	}
	a.info.selectionLabel.TextStyle = fyne.TextStyle{Bold: true}
	a.info.detailLabel.Wrapping = fyne.TextWrapWord

	editor := a.session.Editor()
	a.view = viewer.NewDocumentView(editor, a.session.FrameImage)
	a.view.SetOnChange(func(sel document.Selection) {
		a.updateInfo()
	})

	measureButton := widget.NewButton("Add Measurement", a.startMeasurement)
	frameButton := widget.NewButton("Place Frame", func() {
		a.setStatus("Tap where the frame should go")
		a.view.SetOnTap(func(p geometry.Vector2) document.Selection {
			a.setStatus("")
			return editor.PlaceFrame(p)
		})
	})
	textButton := widget.NewButton("Add Text", a.startText)
	labelButton := widget.NewButton("Edit Label / Text", a.editSelectedText)
	imageButton := widget.NewButton("Attach Image", a.attachImage)

	deleteButton := widget.NewButton("Delete", func() {
		if editor.Delete(a.view.Selection()) {
			a.view.Select(document.NoSelection)
		}
	})
	undoButton := widget.NewButton("Undo", func() {
		editor.Undo()
		a.view.Invalidate()
	})
	redoButton := widget.NewButton("Redo", func() {
		editor.Redo()
		a.view.Invalidate()
	})

	commitButton := widget.NewButton("Save", func() {
		if err := a.session.Commit(context.Background()); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.setStatus("Saved")
		a.view.Invalidate()
	})
	discardButton := widget.NewButton("Discard Changes", func() {
		dialog.ShowConfirm("Discard changes", "Drop all unsaved edits?", func(ok bool) {
			if !ok {
				return
			}
			if err := a.session.Discard(context.Background()); err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			a.view.Invalidate()
		}, a.window)
	})
	backButton := widget.NewButton("Captures", func() {
		if a.session.Editor().CanUndo() {
			dialog.ShowConfirm("Unsaved changes", "Leave without saving?", func(ok bool) {
				if ok {
					a.showWelcomeScreen()
				}
			}, a.window)
			return
		}
		a.showWelcomeScreen()
	})

	instructions := widget.NewLabel(
		"Instructions:\n" +
			"• Tap an item to select it\n" +
			"• Drag endpoints, frames and notes to move them\n" +
			"• Drag a frame's corner handle to resize it\n" +
			"• Distances are re-estimated from the scale",
	)
	instructions.Wrapping = fyne.TextWrapWord

	infoPanel := container.NewVBox(
		widget.NewLabel("Capture:"),
		widget.NewSeparator(),
		a.info.summaryLabel,
		a.info.scaleLabel,
		widget.NewSeparator(),
		a.info.selectionLabel,
		a.info.detailLabel,
		widget.NewSeparator(),
		measureButton,
		frameButton,
		textButton,
		labelButton,
		imageButton,
		deleteButton,
		container.NewGridWithColumns(2, undoButton, redoButton),
		a.info.historyLabel,
		widget.NewSeparator(),
		commitButton,
		discardButton,
		backButton,
		a.info.statusLabel,
		widget.NewSeparator(),
		instructions,
	)

	infoScroll := container.NewVScroll(infoPanel)
	infoScroll.SetMinSize(fyne.NewSize(300, 0))

	content := container.NewBorder(
		nil,        // top
		nil,        // bottom
		nil,        // left
		infoScroll, // right
		a.view,     // center
	)

	a.window.SetContent(content)
	a.updateInfo()
}

// startMeasurement collects two taps and adds an estimated measurement
func (a *App) startMeasurement() {
	editor := a.session.Editor()
	a.setStatus("Tap the first point")
	a.view.SetOnTap(func(first geometry.Vector2) document.Selection {
		a.setStatus("Tap the second point")
		a.view.SetOnTap(func(second geometry.Vector2) document.Selection {
			a.setStatus("")
			return editor.AddMeasurement(first, second)
		})
		return document.NoSelection
	})
}

func (a *App) startText() {
	entry := widget.NewEntry()
	dialog.ShowForm("Add Text", "Place", "Cancel", []*widget.FormItem{
		widget.NewFormItem("Text", entry),
	}, func(ok bool) {
		if !ok || entry.Text == "" {
			return
		}
		text := entry.Text
		a.setStatus("Tap where the note should go")
		a.view.SetOnTap(func(p geometry.Vector2) document.Selection {
			a.setStatus("")
			return a.session.Editor().AddText(p, text)
		})
	}, a.window)
}

func (a *App) editSelectedText() {
	sel := a.view.Selection()
	editor := a.session.Editor()

	var apply func(id, text string) bool
	switch sel.Kind {
	case document.SelectionTextAnnotation:
		apply = editor.SetText
	case document.SelectionFrame, document.SelectionFrameResizeHandle, document.SelectionPerspectiveFrame:
		apply = editor.SetLabel
	default:
		a.setStatus("Select a frame or note first")
		return
	}

	entry := widget.NewEntry()
	dialog.ShowForm("Edit", "Apply", "Cancel", []*widget.FormItem{
		widget.NewFormItem("Text", entry),
	}, func(ok bool) {
		if !ok {
			return
		}
		apply(sel.ID, entry.Text)
		a.view.Invalidate()
	}, a.window)
}

func (a *App) attachImage() {
	sel := a.view.Selection()
	switch sel.Kind {
	case document.SelectionFrame, document.SelectionFrameResizeHandle, document.SelectionPerspectiveFrame:
	default:
		a.setStatus("Select a frame first")
		return
	}

	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()

		img, _, err := image.Decode(reader)
		if err != nil {
			dialog.ShowError(fmt.Errorf("failed to decode image: %w", err), a.window)
			return
		}
		if err := a.session.AttachImage(img, sel.ID); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		slog.Info("image attached", "frame", sel.ID, "file", reader.URI().Name())
		a.view.Invalidate()
	}, a.window)
}

func (a *App) setStatus(text string) {
	a.info.statusLabel.SetText(text)
}

func (a *App) updateInfo() {
	editor := a.session.Editor()
	d := editor.Document()
	cfg := editor.Config()

	summary := analysis.Summarize(&d, document.DistanceEstimator{FallbackMetersPerPixel: cfg.FallbackMetersPerPixel})
	a.info.summaryLabel.SetText(fmt.Sprintf(
		"ID: %s\nCaptured: %s\nWalls: %d\nCorners: %d\nMeasurements: %d\nFrames: %d",
		a.session.ID,
		d.CapturedAt.Format("2006-01-02 15:04"),
		summary.VerticalPlanes,
		summary.CornerCount,
		summary.MeasurementCount,
		summary.FrameCount+summary.PerspectiveFrames,
	))
	a.info.scaleLabel.SetText(fmt.Sprintf("Scale: %.5f m/px (%s)", summary.MetersPerPixel, summary.ScaleSource))

	undo, redo := editor.HistoryDepth()
	a.info.historyLabel.SetText(fmt.Sprintf("Undo: %d  Redo: %d", undo, redo))

	sel := a.view.Selection()
	a.info.selectionLabel.SetText("Selection: " + sel.Kind.String())
	a.info.detailLabel.SetText(selectionDetail(&d, sel))
}

func selectionDetail(d *document.Document, sel document.Selection) string {
	switch sel.Kind {
	case document.SelectionMeasurement, document.SelectionMeasurementEndpointA, document.SelectionMeasurementEndpointB:
		for _, m := range d.Measurements {
			if m.ID == sel.ID {
				source := "estimated"
				if m.IsFromAR {
					source = "AR"
				}
				return fmt.Sprintf("Distance: %s (%s)\nFrom: %s\nTo: %s",
					analysis.FormatMeters(m.DistanceMeters), source,
					analysis.FormatPoint(m.PointA), analysis.FormatPoint(m.PointB))
			}
		}
	case document.SelectionFrame, document.SelectionFrameResizeHandle:
		for _, f := range d.Frames {
			if f.ID == sel.ID {
				size := "unknown size"
				if f.WidthMeters != nil && f.HeightMeters != nil {
					size = analysis.FormatMeters(*f.WidthMeters) + " × " + analysis.FormatMeters(*f.HeightMeters)
				}
				return fmt.Sprintf("Label: %s\nSize: %s\nImage: %s", f.Label, size, f.ImageFilename)
			}
		}
	case document.SelectionPerspectiveFrame:
		for _, pf := range d.PerspectiveFrames {
			if pf.ID == sel.ID {
				return fmt.Sprintf("Label: %s\nWall: %s\nSize: %s × %s\nImage: %s",
					pf.Label, pf.PlaneID,
					analysis.FormatMeters(pf.WidthMeters), analysis.FormatMeters(pf.HeightMeters),
					pf.ImageFilename)
			}
		}
	case document.SelectionTextAnnotation:
		for _, t := range d.TextAnnotations {
			if t.ID == sel.ID {
				return fmt.Sprintf("Text: %s\nAt: %s", t.Text, analysis.FormatPoint(t.Position))
			}
		}
	}
	return ""
}
