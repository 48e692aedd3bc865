package repository

import "github.com/haruapp/haru/internal/model"

// TodoPatch describes a partial update. Nil pointers leave the stored
// field untouched. ClearDate moves the todo back to the backlog; it
// wins over Date because "set to null" must be expressible alongside
// "leave alone".
type TodoPatch struct {
	Title     *string
	Date      *string
	ClearDate bool
	Tag       *model.Tag
	Completed *bool
	Checklist *[]model.ChecklistItem
	Order     *int
}

// fields flattens the patch into the update map sent to the gateway.
func (p TodoPatch) fields() map[string]any {
	updates := make(map[string]any)

	if p.Title != nil {
		updates["title"] = *p.Title
	}
	if p.ClearDate {
		updates["date"] = nil
	} else if p.Date != nil {
		updates["date"] = *p.Date
	}
	if p.Tag != nil {
		updates["tag"] = string(*p.Tag)
	}
	if p.Completed != nil {
		updates["completed"] = *p.Completed
	}
	if p.Checklist != nil {
		updates["checklist"] = encodeChecklist(*p.Checklist)
	}
	if p.Order != nil {
		updates["order"] = *p.Order
	}

	return updates
}

func encodeChecklist(items []model.ChecklistItem) []any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = map[string]any{
			"id":        item.ID,
			"text":      item.Text,
			"completed": item.Completed,
		}
	}
	return out
}

func decodeChecklist(raw any) []model.ChecklistItem {
	arr, ok := raw.([]any)
	if !ok {
		return nil
	}
	var items []model.ChecklistItem
	for _, elem := range arr {
		m, ok := elem.(map[string]any)
		if !ok {
			continue
		}
		item := model.ChecklistItem{}
		if id, ok := m["id"].(string); ok {
			item.ID = id
		}
		if text, ok := m["text"].(string); ok {
			item.Text = text
		}
		if completed, ok := m["completed"].(bool); ok {
			item.Completed = completed
		}
		items = append(items, item)
	}
	return items
}
