package workouts

import (
	"bytes"
	"text/template"
)

var planPrompt = template.Must(template.New("plan").Parse(`You are a professional fitness coach and nutrition expert. Create a personalized {{.Days}}-day workout plan for this user:

- Workout Type: {{.WorkoutType}}
- Daily Calorie Goal: {{.Calories}} kcal
- Injuries or Limitations: {{if .Injury}}{{.Injury}}{{else}}none{{end}}
- Target Area: {{.TargetArea}}
- Available Workout Time per Day: {{.Time}} minutes
- Equipment Available: {{if .Equipment}}yes{{else}}no{{end}}

Each day needs a short title, 4-6 exercises with sets or reps, and an estimated number of calories burned.
Adjust intensity and exercise choice for the injuries and equipment above.
Finish with a "summary" holding the total estimated calories burned and a short motivational message.

Respond with a single JSON object. Use the weekday name as the key for each day, with "title", "exercises" and "caloriesBurned" subkeys, plus the "summary" key.
Return ONLY the JSON object, with no extra text, explanations or backticks.
`))

func buildPrompt(req PlanRequest) (string, error) {
	var buf bytes.Buffer
	if err := planPrompt.Execute(&buf, req); err != nil {
		return "", err
	}
	return buf.String(), nil
}
