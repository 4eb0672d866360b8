package templates

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
	"github.com/dustin/go-humanize"

	"github.com/JonMunkholm/racechart/internal/core"
)

// PageParams is the data for the race page.
type PageParams struct {
	Frame         core.Frame
	Samples       []core.SampleInfo
	SampleKey     string
	MaxImportSize int64
}

// Page renders the full race page for one session. The initial bars are
// rendered server-side; after that the script follows the session's frame
// stream.
func Page(p PageParams) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		f := p.Frame
		var b strings.Builder

		b.WriteString(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		b.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		b.WriteString(`<title>Animated Ranking Visualization</title><style>`)
		b.WriteString(pageCSS)
		b.WriteString(`</style></head>`)
		fmt.Fprintf(&b, `<body data-session="%s" data-row-height="%d">`, templ.EscapeString(f.SessionID), RowHeight)

		b.WriteString(`<header><h1>Animated Ranking Visualization</h1>`)
		b.WriteString(`<p>Watch your data come to life with animated rankings over time</p></header>`)
		b.WriteString(`<div id="error"></div><main>`)

		// Controls
		b.WriteString(`<section class="card"><h2>Controls</h2><div class="buttons">`)
		fmt.Fprintf(&b, `<button id="toggle" type="button">%s</button>`, playLabel(f.Playing))
		b.WriteString(`<button id="reset" type="button">Reset</button></div>`)
		fmt.Fprintf(&b, `<label for="speed">Speed: <span id="speed-value">%dms</span></label>`, f.IntervalMs)
		fmt.Fprintf(&b, `<input id="speed" type="range" min="%d" max="%d" step="%d" value="%d">`,
			core.MinTickInterval.Milliseconds(), core.MaxTickInterval.Milliseconds(),
			core.TickIntervalStep.Milliseconds(), f.IntervalMs)
		b.WriteString(`<label for="metric">Metric name</label>`)
		fmt.Fprintf(&b, `<input id="metric" type="text" placeholder="Enter metric name" value="%s">`, templ.EscapeString(f.Metric))

		b.WriteString(`<form id="import" enctype="multipart/form-data"><label for="file">Import CSV</label>`)
		b.WriteString(`<input id="file" name="file" type="file" accept=".csv,text/csv"><button type="submit">Import</button></form>`)
		fmt.Fprintf(&b, `<a href="/api/template?sample=%s" download>Download template</a>`, templ.EscapeString(p.SampleKey))
		fmt.Fprintf(&b, `<p class="hint">First column: dimension names. Other columns: one value per step. Max file size: %s.</p>`,
			humanize.Bytes(uint64(p.MaxImportSize)))

		b.WriteString(`<form method="get" action="/"><label for="sample">Sample</label><select id="sample" name="sample">`)
		for _, s := range p.Samples {
			sel := ""
			if s.Key == p.SampleKey {
				sel = " selected"
			}
			fmt.Fprintf(&b, `<option value="%s"%s>%s (%d rows, %d steps)</option>`,
				templ.EscapeString(s.Key), sel, templ.EscapeString(s.Label), s.Rows, s.StepCount)
		}
		b.WriteString(`</select><button type="submit">Load</button></form>`)
		fmt.Fprintf(&b, `<p class="links"><a id="export" href="/api/sessions/%[1]s/export">Export CSV</a> <a id="png" href="/api/sessions/%[1]s/chart.png" target="_blank">Snapshot PNG</a></p>`,
			templ.EscapeString(f.SessionID))
		b.WriteString(`</section>`)

		// Chart
		b.WriteString(`<section class="card wide"><h2><span id="metric-title">`)
		b.WriteString(templ.EscapeString(f.Metric))
		b.WriteString(`</span><span id="step" class="mono">`)
		b.WriteString(templ.EscapeString(f.StepLabel))
		b.WriteString(`</span></h2>`)
		if err := Bars(f).Render(ctx, &b); err != nil {
			return err
		}
		b.WriteString(`</section>`)

		// Editing
		b.WriteString(`<section class="card full"><h2>Data</h2><form id="add-row" class="add-row">`)
		b.WriteString(`<input name="label" type="text" placeholder="e.g., Canada">`)
		b.WriteString(`<input name="values" type="text" placeholder="e.g., 1.7,1.8,1.9,2.0,2.1,2.2,2.3,2.4,2.5,2.6,2.7,2.8">`)
		b.WriteString(`<button type="submit">Add Dimension</button></form>`)
		if err := RowList(f).Render(ctx, &b); err != nil {
			return err
		}
		b.WriteString(`</section></main><script>`)
		b.WriteString(pageJS)
		b.WriteString(`</script></body></html>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}

func playLabel(playing bool) string {
	if playing {
		return "Pause"
	}
	return "Play"
}

const pageCSS = `
body{font-family:system-ui,sans-serif;background:#f1f5f9;color:#1e293b;margin:0;padding:16px}
header{text-align:center}h1{margin:8px 0}
main{display:grid;grid-template-columns:1fr 2fr;gap:16px;max-width:1150px;margin:0 auto}
.card{background:#fff;border-radius:10px;padding:16px;box-shadow:0 1px 3px rgba(0,0,0,.08);display:flex;flex-direction:column;gap:8px}
.full{grid-column:1/-1}
h2{display:flex;justify-content:space-between;margin:0 0 8px}
.mono{font-family:ui-monospace,monospace}
.bars{position:relative;overflow:hidden}
.bar-row{position:absolute;left:0;right:0;display:flex;gap:12px;align-items:center;transition:transform .5s ease-in-out}
.rank{width:32px;height:32px;border-radius:50%;color:#fff;font-weight:bold;display:flex;align-items:center;justify-content:center}
.bar-body{flex:1}.bar-head{display:flex;justify-content:space-between;font-size:14px}
.track{background:#e5e7eb;border-radius:4px;height:8px}.fill{height:8px;border-radius:4px;transition:width .5s}
.alert{background:#fee2e2;color:#991b1b;padding:8px 12px;border-radius:6px;max-width:1150px;margin:0 auto 12px;display:flex;gap:12px}
.row-list{list-style:none;padding:0;max-height:160px;overflow-y:auto}
.row-list li{display:flex;justify-content:space-between;padding:4px 8px;background:#f8fafc;margin-bottom:4px}
.add-row{display:grid;grid-template-columns:1fr 2fr auto;gap:8px}
.hint{font-size:12px;color:#64748b}.danger{color:#dc2626}
`

const pageJS = `
(function(){
  var id = document.body.dataset.session;
  var rowH = parseInt(document.body.dataset.rowHeight, 10);
  var base = '/api/sessions/' + id;
  var errBox = document.getElementById('error');

  function esc(s){ var d=document.createElement('div'); d.textContent=s; return d.innerHTML; }
  function fmt(v){ return v.toLocaleString(undefined,{maximumFractionDigits:1}); }

  function showError(body){
    errBox.innerHTML = '<div class="alert" role="alert"><strong>'+esc(body.message||'Request failed')+
      '</strong><span>'+esc(body.action||'')+'</span><code>'+esc(body.code||'')+'</code></div>';
  }

  function call(method, path, body, isForm){
    var opts = {method: method, headers: {'Accept':'application/json'}};
    if (body !== undefined) {
      if (isForm) { opts.body = body; } else { opts.body = JSON.stringify(body); opts.headers['Content-Type']='application/json'; }
    }
    return fetch(base + path, opts).then(function(res){
      if (res.ok) { errBox.innerHTML=''; return res.status === 204 ? null : res.json(); }
      return res.json().then(function(b){ showError(b); throw b; });
    });
  }

  function render(f){
    document.getElementById('toggle').textContent = f.playing ? 'Pause' : 'Play';
    document.getElementById('step').textContent = f.step_label;
    document.getElementById('metric-title').textContent = f.metric;
    document.getElementById('speed-value').textContent = f.interval_ms + 'ms';
    var bars = document.getElementById('bars');
    bars.style.height = (rowH * Math.max(f.rows.length,1)) + 'px';
    var existing = {};
    Array.prototype.forEach.call(bars.children, function(el){ existing[el.dataset.label] = el; });
    var seen = {};
    f.rows.forEach(function(r){
      var el = existing[r.label];
      if (!el || seen[r.label]) { el = document.createElement('div'); el.className='bar-row'; el.dataset.label=r.label; bars.appendChild(el); }
      seen[r.label] = true;
      var pct = f.max_value > 0 ? Math.max(0, Math.min(1, r.value / f.max_value)) * 100 : 0;
      el.style.transform = 'translateY(' + ((r.rank - 1) * rowH) + 'px)';
      el.innerHTML = '<span class="rank" style="background:'+r.color+'">'+r.rank+'</span><div class="bar-body"><div class="bar-head"><span>'+
        esc(r.label)+'</span><span class="mono">'+fmt(r.value)+'</span></div><div class="track"><div class="fill" style="width:'+pct+'%;background:'+r.color+'"></div></div></div>';
    });
    Object.keys(existing).forEach(function(k){ if (!seen[k]) existing[k].remove(); });
    var list = document.getElementById('row-list');
    list.innerHTML = f.labels.map(function(l,i){
      return '<li><span>'+esc(l)+'</span><button type="button" class="danger" data-delete="'+i+'">Delete</button></li>';
    }).join('');
  }

  var stream = new EventSource(base + '/stream');
  stream.addEventListener('frame', function(e){ render(JSON.parse(e.data)); });
  stream.addEventListener('closed', function(){ stream.close(); showError({message:'This chart session has ended', action:'Reload the page to start a new session', code:'SES002'}); });

  document.getElementById('toggle').onclick = function(){ call('POST','/toggle').catch(function(){}); };
  document.getElementById('reset').onclick = function(){ call('POST','/reset').catch(function(){}); };
  document.getElementById('speed').onchange = function(e){ call('POST','/speed',{interval_ms: parseInt(e.target.value,10)}).catch(function(){}); };
  document.getElementById('metric').onchange = function(e){ call('POST','/metric',{metric: e.target.value}).catch(function(){}); };
  document.getElementById('import').onsubmit = function(e){
    e.preventDefault();
    var file = document.getElementById('file').files[0];
    if (!file) { showError({message:'Please select a valid CSV file', code:'IMP006'}); return; }
    var fd = new FormData(); fd.append('file', file);
    call('POST','/import',fd,true).then(function(r){ document.getElementById('metric').value = r.frame.metric; }).catch(function(){});
  };
  document.getElementById('add-row').onsubmit = function(e){
    e.preventDefault();
    var form = e.target;
    call('POST','/rows',{label: form.label.value, values: form.values.value}).then(function(){ form.reset(); }).catch(function(){});
  };
  document.getElementById('row-list').onclick = function(e){
    var idx = e.target.dataset.delete;
    if (idx !== undefined) call('DELETE','/rows/'+idx).catch(function(){});
  };
})();
`
