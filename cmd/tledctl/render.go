package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/urmzd/tled/pkg/device"
	"github.com/urmzd/tled/pkg/elk"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// swatch renders a truecolor block for rgb.
func swatch(rgb [3]uint8) string {
	return fmt.Sprintf("\x1b[48;2;%d;%d;%dm    \x1b[0m", rgb[0], rgb[1], rgb[2])
}

func renderSnapshot(snap *device.Snapshot, colorize bool) string {
	if snap == nil {
		return "Device not initialized. Run `tledctl init`."
	}

	color := fmt.Sprintf("#%02x%02x%02x", snap.RGBColor[0], snap.RGBColor[1], snap.RGBColor[2])
	if colorize {
		color += " " + swatch(snap.RGBColor)
	}

	rows := [][]string{
		{"Device", snap.DeviceTypeName},
		{"Power", onOff(snap.IsOn)},
		{"Color", color},
		{"Brightness", strconv.Itoa(int(snap.Brightness)) + "%"},
	}
	if snap.ColorTempKelvin != nil {
		rows = append(rows, []string{"White", fmt.Sprintf("%d K", *snap.ColorTempKelvin)})
	}
	if snap.Effect != nil {
		rows = append(rows, []string{"Effect", effectLabel(*snap.Effect)})
	}
	if snap.EffectSpeed != nil {
		rows = append(rows, []string{"Effect speed", strconv.Itoa(int(*snap.EffectSpeed)) + "%"})
	}
	if snap.Audio != nil {
		rows = append(rows, []string{"Audio", renderAudioLine(snap.Audio)})
	}

	return renderTable([]string{"Property", "Value"}, rows, nil)
}

func renderAudio(a *device.AudioSnapshot) string {
	rows := [][]string{
		{"Active", yesNo(a.Active)},
		{"Mode", a.Mode.String()},
		{"Range", a.Range.String()},
		{"Sensitivity", strconv.Itoa(int(a.Sensitivity)) + "%"},
		{"Bass drives color", yesNo(a.BassColorTrigger)},
		{"Mids drive brightness", yesNo(a.MidBrightnessTrigger)},
		{"Highs drive effects", yesNo(a.HighEffectTrigger)},
		{"Update interval", fmt.Sprintf("%d ms", a.UpdateIntervalMs)},
	}
	return renderTable([]string{"Setting", "Value"}, rows, nil)
}

func renderAudioLine(a *device.AudioSnapshot) string {
	state := "stopped"
	if a.Active {
		state = "running"
	}
	return fmt.Sprintf("%s, %s, sensitivity %d%%", state, a.Mode, a.Sensitivity)
}

func effectLabel(id uint8) string {
	if name, ok := elk.EffectName(id); ok {
		return fmt.Sprintf("%s (0x%02x)", strings.ReplaceAll(name, "_", " "), id)
	}
	return fmt.Sprintf("0x%02x", id)
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
