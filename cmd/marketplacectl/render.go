package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/Mutesi02/product-marketplace/internal/application/dto"
)

const timeLayout = "2006-01-02 15:04"

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Faint(true)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func renderProducts(list *dto.ProductListResponse) string {
	if len(list.Items) == 0 {
		return mutedStyle.Render("Sin productos")
	}
	t := newTable("ID", "Nombre", "Categoría", "Precio", "Estado", "Actualizado")
	for _, p := range list.Items {
		t.Row(p.ID, p.Name, p.Category, p.Price.StringFixed(2), p.Status, p.UpdatedAt.Local().Format(timeLayout))
	}
	footer := mutedStyle.Render(fmt.Sprintf("%d-%d de %d",
		list.Page.Offset+1, list.Page.Offset+len(list.Items), list.Page.Total))
	return t.String() + "\n" + footer
}

func renderProduct(p *dto.ProductResponse) string {
	return renderKeyValues("Producto "+p.ID, [][2]string{
		{"Nombre", p.Name},
		{"Descripción", p.Description},
		{"Categoría", p.Category},
		{"Precio", p.Price.StringFixed(2)},
		{"Estado", p.Status},
		{"Versión", fmt.Sprint(p.Version)},
	})
}

func renderHistory(events []dto.ProductEventResponse) string {
	if len(events) == 0 {
		return mutedStyle.Render("Sin eventos")
	}
	t := newTable("Fecha", "Acción", "De", "A", "Actor", "Motivo")
	for _, e := range events {
		t.Row(e.CreatedAt.Local().Format(timeLayout), e.Action, e.FromStatus, e.ToStatus, e.ActorID, e.Reason)
	}
	return t.String()
}

func renderActivities(feed *dto.ActivityListResponse) string {
	if len(feed.Items) == 0 {
		return mutedStyle.Render("Sin actividad")
	}
	t := newTable("Fecha", "Producto", "Acción", "De", "A", "Actor")
	for _, e := range feed.Items {
		t.Row(e.CreatedAt.Local().Format(timeLayout), e.ProductID, e.Action, e.FromStatus, e.ToStatus, e.ActorID)
	}
	return t.String()
}

func renderDashboard(d *dto.DashboardResponse) string {
	keys := make([]string, 0, len(d.Stats))
	for k := range d.Stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	t := newTable("Métrica", "Valor")
	for _, k := range keys {
		t.Row(k, fmt.Sprint(d.Stats[k]))
	}
	var perms []string
	if d.Permissions.CanCreateProduct {
		perms = append(perms, "crear productos")
	}
	if d.Permissions.CanApproveProduct {
		perms = append(perms, "aprobar productos")
	}
	if d.Permissions.CanManageUsers {
		perms = append(perms, "gestionar usuarios")
	}
	if len(perms) == 0 {
		perms = append(perms, "solo lectura")
	}
	return titleStyle.Render(fmt.Sprintf("Dashboard %s · %s", d.DashboardType, d.User.Email)) + "\n" +
		mutedStyle.Render("Permisos: "+strings.Join(perms, ", ")) + "\n" +
		t.String()
}

func renderKeyValues(title string, rows [][2]string) string {
	width := 0
	for _, r := range rows {
		if w := lipgloss.Width(r[0]); w > width {
			width = w
		}
	}
	label := lipgloss.NewStyle().Bold(true).Width(width + 2)
	lines := []string{titleStyle.Render(title)}
	for _, r := range rows {
		lines = append(lines, label.Render(r[0])+r[1])
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
