package server

const indexTemplate = "index"

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="utf-8">
	<title>Mood Tracker</title>
</head>
<body>
	<h1>{{ .Mood }}</h1>
	<p>Today: {{ .Today }}</p>
	{{ if .EntryExists }}
	<p>Today's mood is recorded.</p>
	{{ else }}
	<p>No mood recorded for today yet.</p>
	{{ end }}
	<form method="post" action="/api/1" onsubmit="return send(this)"><button>Motivated</button></form>
	<form method="post" action="/api/0" onsubmit="return send(this)"><button>Unmotivated</button></form>
	<script>
	function send(form) {
		fetch(form.action, {method: "POST"}).then(function () { location.reload(); });
		return false;
	}
	</script>
</body>
</html>
`
