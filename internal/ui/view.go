// ABOUTME: TUI rendering
// ABOUTME: Header, product list, checkout view and help line
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/harperreed/voicecart/internal/version"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	highlightStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("220"))

	toastStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("231")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().Faint(true)
)

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	if m.shop.IsCheckout {
		b.WriteString(m.renderCheckout())
	} else {
		b.WriteString(m.renderProducts())
		b.WriteString(m.renderSpotlight())
	}

	b.WriteString("\n")
	if m.toast != "" {
		b.WriteString(toastStyle.Render(m.toast))
		b.WriteString("\n")
	}
	b.WriteString(m.renderPrompt())
	b.WriteString(m.renderHelp())

	return b.String()
}

// renderHeader renders connection and capture status
func (m Model) renderHeader() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("%s %s", version.Product, version.Version)))
	b.WriteString("\n")

	status := m.connection
	if status == "" {
		status = "disconnected"
	}
	if m.serverURL != "" {
		status += " (" + m.serverURL + ")"
	}
	b.WriteString(headerStyle.Render("Status: "))
	b.WriteString(valueStyle.Render(status))
	b.WriteString("\n")

	b.WriteString(headerStyle.Render("Mic: "))
	b.WriteString(valueStyle.Render(onOff(m.micOn)))
	b.WriteString(headerStyle.Render("  Camera: "))
	b.WriteString(valueStyle.Render(onOff(m.camOn)))
	b.WriteString(headerStyle.Render("  Cart: "))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%d items", m.shop.CartCount())))
	b.WriteString(headerStyle.Render("  Speech: "))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%d played, %d queued", m.played, m.queued)))
	b.WriteString("\n")

	return b.String()
}

// renderProducts renders the filtered catalog
func (m Model) renderProducts() string {
	var b strings.Builder

	title := fmt.Sprintf("Products (%d of %d)", len(m.shop.Filtered), len(m.shop.Products))
	if m.shop.FilterCriteria != "" {
		title += fmt.Sprintf("  filter: %q", m.shop.FilterCriteria)
	}
	b.WriteString(headerStyle.Render(title))
	b.WriteString("\n")

	if len(m.shop.Filtered) == 0 {
		b.WriteString(valueStyle.Render("  No products match"))
		b.WriteString("\n")
		return b.String()
	}

	for i, p := range m.shop.Filtered {
		pointer := "  "
		if i == m.cursor {
			pointer = "> "
		}
		line := fmt.Sprintf("%-28s %10s  %s", truncate(p.Name, 28), formatPrice(p.Price), p.Category)
		if p.ID == m.shop.HighlightedID {
			line = highlightStyle.Render("★ " + line)
		} else {
			line = valueStyle.Render("  " + line)
		}
		b.WriteString(pointer + line + "\n")
	}

	return b.String()
}

// renderSpotlight details the highlighted product, even when the current
// filter hides it
func (m Model) renderSpotlight() string {
	p, ok := m.shop.Highlighted()
	if !ok {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(headerStyle.Render(fmt.Sprintf("★ %s  %s", p.Name, formatPrice(p.Price))))
	b.WriteString("\n")
	if p.Description != "" {
		b.WriteString(valueStyle.Render("  " + truncate(p.Description, 72)))
		b.WriteString("\n")
	}
	for _, spec := range p.Specs {
		b.WriteString(valueStyle.Render(fmt.Sprintf("  %s: %s", spec.Key, strings.Join(spec.Values, ", "))))
		b.WriteString("\n")
	}
	return b.String()
}

// renderCheckout renders the cart with its total
func (m Model) renderCheckout() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("Checkout"))
	b.WriteString("\n")

	if len(m.shop.Cart) == 0 {
		b.WriteString(valueStyle.Render("  Your cart is empty"))
		b.WriteString("\n")
		return b.String()
	}

	for _, item := range m.shop.Cart {
		line := fmt.Sprintf("  %-28s x%-3d %10s", truncate(item.Product.Name, 28), item.Quantity,
			formatPrice(item.Product.Price*float64(item.Quantity)))
		b.WriteString(valueStyle.Render(line))
		b.WriteString("\n")
	}
	b.WriteString(headerStyle.Render(fmt.Sprintf("  Total: %s", formatPrice(m.shop.CartTotal()))))
	b.WriteString("\n")

	return b.String()
}

// renderPrompt renders the text entry line while typing
func (m Model) renderPrompt() string {
	if !m.typing {
		return ""
	}
	return headerStyle.Render("Say: ") + string(m.input) + "▏\n"
}

// renderHelp renders keyboard shortcuts
func (m Model) renderHelp() string {
	if m.typing {
		return helpStyle.Render("enter:Send  esc:Cancel")
	}
	return helpStyle.Render("↑/↓:Select  a:Add  o:Checkout  esc:Home  m:Mic  c:Camera  /:Type  r:Reconnect  q:Quit")
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

func formatPrice(price float64) string {
	return fmt.Sprintf("$%.2f", price)
}

func truncate(s string, length int) string {
	r := []rune(s)
	if len(r) <= length {
		return s
	}
	return string(r[:length-3]) + "..."
}
