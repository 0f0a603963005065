package documents

type column = map[string]interface{}

// builtinTemplates are the starter templates installed by initialize-templates.
func builtinTemplates() []NotionTemplate {
	return []NotionTemplate{
		{
			Name:        "Study Plan Template",
			Type:        "study_plan",
			Description: "Organize your study schedule and track progress",
			Icon:        "📚",
			IsActive:    true,
			IsDefault:   true,
			Content: TemplateContent{
				Blocks: []map[string]interface{}{
					{"id": "title", "type": "heading_1", "content": "My Study Plan", "properties": map[string]interface{}{}},
					{"id": "overview", "type": "text", "content": "Plan Overview", "properties": map[string]interface{}{
						"placeholder": "Describe your study goals...",
					}},
					{"id": "subjects", "type": "database", "content": "Study Subjects", "properties": map[string]interface{}{
						"columns": []column{
							{"name": "Subject", "type": "title"},
							{"name": "Priority", "type": "select", "options": []string{"High", "Medium", "Low"}},
							{"name": "Hours/Week", "type": "number"},
							{"name": "Progress", "type": "progress"},
							{"name": "Deadline", "type": "date"},
						},
					}},
					{"id": "schedule", "type": "calendar", "content": "Study Schedule", "properties": map[string]interface{}{
						"view_type": "week",
					}},
				},
				Properties: map[string]interface{}{
					"total_hours":     map[string]interface{}{"type": "formula", "formula": "sum(subjects.hours_week)"},
					"completion_rate": map[string]interface{}{"type": "formula", "formula": "avg(subjects.progress)"},
				},
			},
			Metadata: TemplateMetadata{Category: "education"},
		},
		{
			Name:        "Goal Tracker Template",
			Type:        "goal_tracker",
			Description: "Track your personal and professional goals",
			Icon:        "🎯",
			IsActive:    true,
			IsDefault:   true,
			Order:       1,
			Content: TemplateContent{
				Blocks: []map[string]interface{}{
					{"id": "title", "type": "heading_1", "content": "Goal Tracker", "properties": map[string]interface{}{}},
					{"id": "goals", "type": "database", "content": "Goals Database", "properties": map[string]interface{}{
						"columns": []column{
							{"name": "Goal", "type": "title"},
							{"name": "Category", "type": "select", "options": []string{"Career", "Health", "Personal"}},
							{"name": "Status", "type": "select", "options": []string{"Not Started", "In Progress", "Completed"}},
							{"name": "Progress", "type": "progress"},
							{"name": "Deadline", "type": "date"},
						},
					}},
				},
			},
			Metadata: TemplateMetadata{Category: "productivity"},
		},
	}
}
