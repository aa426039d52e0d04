package models

import (
	"time"
)

// ChildColumns is the canonical header of the children table, in order.
var ChildColumns = []string{
	"name", "age", "birth_date", "father", "mother", "other_guardian",
	"address", "neighborhood", "city", "phone", "is_member", "is_baptized",
	"chronic_illness", "allergy", "wants_monitor_chat", "wants_prayer_visit",
	"allows_photos", "notes", "is_visitor", "registration_date",
}

// ChildLegacyColumns maps header names written by the first version of the
// app to their current names.
var ChildLegacyColumns = map[string]string{
	"nome":              "name",
	"idade":             "age",
	"data_nascimento":   "birth_date",
	"pai":               "father",
	"mae":               "mother",
	"outro_responsavel": "other_guardian",
	"endereco":          "address",
	"bairro":            "neighborhood",
	"cidade":            "city",
	"telefone":          "phone",
	"membro":            "is_member",
	"batizado":          "is_baptized",
	"doenca_cronica":    "chronic_illness",
	"alergia":           "allergy",
	"conversa_monitor":  "wants_monitor_chat",
	"visita":            "wants_prayer_visit",
	"permite_fotos":     "allows_photos",
	"observacoes":       "notes",
	"visitante":         "is_visitor",
	"data_cadastro":     "registration_date",
}

var CheckinColumns = []string{"name", "checkin_time", "checkout_time", "room"}

var CheckinLegacyColumns = map[string]string{
	"nome":          "name",
	"data_checkin":  "checkin_time",
	"data_checkout": "checkout_time",
	"sala":          "room",
}

type childField struct {
	get func(*Child) string
	set func(*Child, string)
}

var childFields = map[string]childField{
	"name":               {func(c *Child) string { return c.Name }, func(c *Child, v string) { c.Name = v }},
	"age":                {func(c *Child) string { return c.Age }, func(c *Child, v string) { c.Age = v }},
	"birth_date":         {func(c *Child) string { return c.BirthDate }, func(c *Child, v string) { c.BirthDate = v }},
	"father":             {func(c *Child) string { return c.Father }, func(c *Child, v string) { c.Father = v }},
	"mother":             {func(c *Child) string { return c.Mother }, func(c *Child, v string) { c.Mother = v }},
	"other_guardian":     {func(c *Child) string { return c.OtherGuardian }, func(c *Child, v string) { c.OtherGuardian = v }},
	"address":            {func(c *Child) string { return c.Address }, func(c *Child, v string) { c.Address = v }},
	"neighborhood":       {func(c *Child) string { return c.Neighborhood }, func(c *Child, v string) { c.Neighborhood = v }},
	"city":               {func(c *Child) string { return c.City }, func(c *Child, v string) { c.City = v }},
	"phone":              {func(c *Child) string { return c.Phone }, func(c *Child, v string) { c.Phone = v }},
	"is_member":          {func(c *Child) string { return string(c.IsMember) }, func(c *Child, v string) { c.IsMember = YesNo(v) }},
	"is_baptized":        {func(c *Child) string { return string(c.IsBaptized) }, func(c *Child, v string) { c.IsBaptized = YesNo(v) }},
	"chronic_illness":    {func(c *Child) string { return c.ChronicIllness }, func(c *Child, v string) { c.ChronicIllness = v }},
	"allergy":            {func(c *Child) string { return c.Allergy }, func(c *Child, v string) { c.Allergy = v }},
	"wants_monitor_chat": {func(c *Child) string { return string(c.WantsMonitorChat) }, func(c *Child, v string) { c.WantsMonitorChat = ChatPreference(v) }},
	"wants_prayer_visit": {func(c *Child) string { return string(c.WantsPrayerVisit) }, func(c *Child, v string) { c.WantsPrayerVisit = YesNo(v) }},
	"allows_photos":      {func(c *Child) string { return string(c.AllowsPhotos) }, func(c *Child, v string) { c.AllowsPhotos = YesNo(v) }},
	"notes":              {func(c *Child) string { return c.Notes }, func(c *Child, v string) { c.Notes = v }},
	"is_visitor":         {func(c *Child) string { return string(c.IsVisitor) }, func(c *Child, v string) { c.IsVisitor = YesNo(v) }},
	"registration_date":  {func(c *Child) string { return c.RegistrationDate }, func(c *Child, v string) { c.RegistrationDate = v }},
}

// ChildFromRow maps a data row onto a Child using header positions.
// Columns outside the schema land in Extra.
func ChildFromRow(header, row []string) Child {
	var c Child
	for i, col := range header {
		v := ""
		if i < len(row) {
			v = row[i]
		}
		if f, ok := childFields[col]; ok {
			f.set(&c, v)
			continue
		}
		if c.Extra == nil {
			c.Extra = make(map[string]string)
		}
		c.Extra[col] = v
	}
	c.Normalize()
	return c
}

// Row renders the child in header order.
func (c Child) Row(header []string) []string {
	out := make([]string, len(header))
	for i, col := range header {
		if f, ok := childFields[col]; ok {
			out[i] = f.get(&c)
			continue
		}
		out[i] = c.Extra[col]
	}
	return out
}

// CheckinFromRow parses an event row laid out as CheckinColumns, followed by
// any extra columns the file carries.
func CheckinFromRow(row []string, loc *time.Location) Checkin {
	cell := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}
	e := Checkin{ChildName: cell(0), Room: cell(3)}
	if n := len(CheckinColumns); len(row) > n {
		e.extra = append([]string(nil), row[n:]...)
	}
	if in := cell(1); in != "" {
		if t, err := time.ParseInLocation(DateTimeLayout, in, loc); err == nil {
			e.CheckinAt = t
		} else {
			e.rawIn = in
		}
	}
	if out := cell(2); out != "" {
		if t, err := time.ParseInLocation(DateTimeLayout, out, loc); err == nil {
			e.CheckoutAt = &t
		} else {
			e.rawOut = out
		}
	}
	return e
}

func (e Checkin) Row(loc *time.Location) []string {
	in, out := e.rawIn, e.rawOut
	if !e.CheckinAt.IsZero() {
		in = e.CheckinAt.In(loc).Format(DateTimeLayout)
	}
	if e.CheckoutAt != nil {
		out = e.CheckoutAt.In(loc).Format(DateTimeLayout)
	}
	return append([]string{e.ChildName, in, out, e.Room}, e.extra...)
}
