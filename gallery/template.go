package gallery

import "html/template"

var pageTemplate = template.Must(template.New("gallery").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
  body { font-family: system-ui, sans-serif; margin: 2rem auto; max-width: 1200px; padding: 0 1rem; background: #111; color: #ddd; }
  h1 { font-weight: 600; }
  .meta { color: #888; font-size: .9rem; margin-bottom: 2rem; }
  .recording { border: 1px solid #333; border-radius: 8px; padding: 1rem; margin-bottom: 1.5rem; background: #1a1a1a; }
  .recording h2 { margin: 0 0 .5rem; font-size: 1.1rem; }
  .recording img { width: 100%; border-radius: 4px; }
  .fields { display: flex; flex-wrap: wrap; gap: 1rem; font-size: .85rem; color: #aaa; margin: .5rem 0; }
  .fields span b { color: #ddd; }
  audio { width: 100%; margin-top: .5rem; }
  .links a { color: #6cf; margin-right: 1rem; font-size: .85rem; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p class="meta">{{.Count}} recordings &middot; generated {{.Generated}}</p>
{{range .Entries}}
<div class="recording">
  <h2>{{.Name}}</h2>
  <div class="fields">
    {{if .RecordedAt}}<span><b>Recorded:</b> {{.RecordedAt}}</span>{{end}}
    {{if .DeviceID}}<span><b>Device:</b> {{.DeviceID}}</span>{{end}}
    {{if .Duration}}<span><b>Duration:</b> {{.Duration}}</span>{{end}}
    {{if .Gain}}<span><b>Gain:</b> {{.Gain}}</span>{{end}}
    {{if .Battery}}<span><b>Battery:</b> {{.Battery}}</span>{{end}}
    <span><b>Size:</b> {{.Size}}</span>
  </div>
  {{if .PNG}}<img src="{{.PNG}}" alt="Spectrogram of {{.Name}}" loading="lazy">{{end}}
  <audio controls preload="none" src="{{.WAV}}"></audio>
  <div class="links">
    <a href="{{.WAV}}">WAV</a>
    {{if .MP4}}<a href="{{.MP4}}">Spectrogram video</a>{{end}}
    {{if .GIF}}<a href="{{.GIF}}">GIF preview</a>{{end}}
  </div>
</div>
{{end}}
</body>
</html>
`))
