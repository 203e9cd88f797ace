package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"

	"fitlot/internal/lifecycle"
	"fitlot/internal/store"
)

var (
	stepColors = map[lifecycle.Step]*color.Color{
		lifecycle.StepWikkelen:      color.New(color.FgCyan),
		lifecycle.StepLossen:        color.New(color.FgBlue),
		lifecycle.StepMazak:         color.New(color.FgMagenta),
		lifecycle.StepNabewerken:    color.New(color.FgYellow),
		lifecycle.StepEindinspectie: color.New(color.FgHiYellow),
		lifecycle.StepFinished:      color.New(color.FgGreen),
		lifecycle.StepHold:          color.New(color.FgHiRed),
		lifecycle.StepRejected:      color.New(color.FgRed, color.Bold),
	}
	urgencyColors = map[store.Urgency]*color.Color{
		store.UrgencySpoed: color.New(color.FgRed, color.Bold),
		store.UrgencyHold:  color.New(color.FgYellow),
	}
)

func colorStep(step lifecycle.Step) string {
	if c, ok := stepColors[step]; ok {
		return c.Sprint(string(step))
	}
	return string(step)
}

func colorUrgency(urgency store.Urgency) string {
	if c, ok := urgencyColors[urgency]; ok {
		return c.Sprint(string(urgency))
	}
	return string(urgency)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return formatTime(*t)
}

func formatCount(value int) string {
	return fmt.Sprintf("%d", value)
}
