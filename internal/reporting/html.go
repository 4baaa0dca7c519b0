package reporting

import (
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// printCSS styles the HTML export for screen and print.
const printCSS = `html,body,*{-webkit-print-color-adjust:exact !important;print-color-adjust:exact !important;}
body{font-family:-apple-system,BlinkMacSystemFont,"Segoe UI",Roboto,Arial,sans-serif;color:#1f2937;background:#fff;margin:0;padding:1.5rem;}
.report{max-width:1000px;margin:0 auto;}
h1{color:#0f172a;border-bottom:3px solid #6d28d9;padding-bottom:0.4rem;}
h2{color:#4c1d95;margin-top:1.8rem;}
table{width:100%;border-collapse:collapse;border:1px solid #cbd5e1;font-size:0.85rem;margin:0.6rem 0;}
th,td{border:1px solid #cbd5e1;padding:0.35rem 0.5rem;text-align:left;vertical-align:top;}
thead th{background:#f1f5f9;font-weight:700;}
code{background:#f1f5f9;padding:0 0.25rem;border-radius:3px;}
.footer{margin-top:2rem;font-size:0.75rem;color:#64748b;}
@media print{@page{size:A4;margin:12mm;} body{padding:0;} .report{max-width:none;} h2{break-after:avoid;} table{break-inside:avoid;}}`

// RenderHTML renders the Markdown report as a standalone printable page.
// Raw HTML in user supplied text is not passed through.
func RenderHTML(r *Report) ([]byte, error) {
	var content strings.Builder
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := md.Convert([]byte(RenderMarkdown(r)), &content); err != nil {
		return nil, fmt.Errorf("markdown convert: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("<!doctype html><html><head><meta charset='utf-8'>")
	sb.WriteString("<title>" + html.EscapeString(r.Title) + "</title>")
	sb.WriteString("<style>" + printCSS + "</style></head><body>")
	sb.WriteString("<div class='report'>")
	sb.WriteString(content.String())
	sb.WriteString("<div class='footer'>Generated by PolyAI ROI Calculator | Not official PolyAI pricing</div>")
	sb.WriteString("</div></body></html>")
	return []byte(sb.String()), nil
}
