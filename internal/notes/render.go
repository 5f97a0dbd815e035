package notes

import (
	"bytes"
	"html/template"
	"net/http"
)

var listTmpl = template.Must(template.New("list").Parse(
	`<h1>Notes:</h1><ul>{{range .}}
  <li><strong>{{.Name}}</strong>: {{.Text}}</li>{{end}}
</ul>`))

const uploadFormHTML = `<form action="/write" method="POST">
  <label for="note_name">Note Name:</label>
  <input type="text" id="note_name" name="note_name" required><br>

  <label for="note">Note:</label>
  <input type="text" id="note" name="note" required><br>

  <button type="submit">Submit</button>
</form>
`

func renderList(w http.ResponseWriter, c Collection) error {
	var buf bytes.Buffer
	if err := listTmpl.Execute(&buf, c); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return err
	}
	writeHTML(w, buf.Bytes())
	return nil
}

func writeHTML(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
