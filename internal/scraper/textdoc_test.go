package scraper

import (
	"reflect"
	"testing"
)

const textFixture = `<html>
<head>
<title>Moradia em Braga &#8211; venda</title>
<meta name="description" content="Moradia com jardim.">
</head>
<body>
<a href="#">Ver descrição no idioma original</a>
<div>Moradia espaçosa<br>com jardim e garagem.</div>
<p>Primeiro parágrafo.</p>
<p><strong>Segundo</strong> parágrafo.</p>
<img src="https://img4.example/id.pro.pt.image.master/1.jpg" alt="">
<img class="logo" src="/static/logo.png">
<script>var adMultimediasInfo = {title: 'Moradia em Braga'};</script>
</body>
</html>`

func TestTextDocument(t *testing.T) {
	doc := NewTextDocument(textFixture)

	if got := doc.Title(); got != "Moradia em Braga – venda" {
		t.Errorf("Title = %q", got)
	}
	if got := doc.MetaDescription(); got != "Moradia com jardim." {
		t.Errorf("MetaDescription = %q", got)
	}

	// Selector queries are unsupported and answer with zero values.
	if got := doc.Text("h1"); got != "" {
		t.Errorf("Text(h1) = %q, want empty", got)
	}
	if got := doc.Attr("a", "href"); got != "" {
		t.Errorf("Attr = %q, want empty", got)
	}

	wantParas := []string{"Primeiro parágrafo.", "Segundo parágrafo."}
	if got := doc.Texts("p"); !reflect.DeepEqual(got, wantParas) {
		t.Errorf("Texts(p) = %v, want %v", got, wantParas)
	}

	wantImgs := []string{
		"https://img4.example/id.pro.pt.image.master/1.jpg",
		"/static/logo.png",
	}
	if got := doc.Attrs("img", "src"); !reflect.DeepEqual(got, wantImgs) {
		t.Errorf("Attrs(img, src) = %v, want %v", got, wantImgs)
	}

	if got := doc.SectionAfterAnchor("Ver descrição no idioma original"); got != "Moradia espaçosa com jardim e garagem." {
		t.Errorf("SectionAfterAnchor = %q", got)
	}

	if got := doc.Global("adMultimediasInfo").Field("title").Str(); got != "Moradia em Braga" {
		t.Errorf("Global title = %q", got)
	}

	full := doc.FullText()
	if full == "" {
		t.Fatal("FullText empty")
	}
	for _, banned := range []string{"adMultimediasInfo", "<p>", "<img"} {
		if containsAny(full, []string{banned}) {
			t.Errorf("FullText leaked %q", banned)
		}
	}
}

func TestDOMDocument(t *testing.T) {
	doc := NewDOMDocument(textFixture)

	if got := doc.Title(); got != "Moradia em Braga – venda" {
		t.Errorf("Title = %q", got)
	}
	if got := doc.MetaDescription(); got != "Moradia com jardim." {
		t.Errorf("MetaDescription = %q", got)
	}
	if got := doc.Attr("img.logo", "src"); got != "/static/logo.png" {
		t.Errorf("Attr(img.logo, src) = %q", got)
	}
	if got := doc.SectionAfterAnchor("Ver descrição no idioma original"); got != "Moradia espaçosa com jardim e garagem." {
		t.Errorf("SectionAfterAnchor = %q", got)
	}
	if got := doc.Global("adMultimediasInfo").Field("title").Str(); got != "Moradia em Braga" {
		t.Errorf("Global title = %q", got)
	}
}

func TestDOMDocumentSeededGlobals(t *testing.T) {
	doc := NewDOMDocumentWithGlobals("<html></html>", map[string]any{
		"adMultimediasInfo": map[string]any{"title": "Seeded"},
	})
	if got := doc.Global("adMultimediasInfo").Field("title").Str(); got != "Seeded" {
		t.Errorf("seeded global title = %q", got)
	}
	if doc.Global("config").OK() {
		t.Error("absent global should not resolve")
	}
}

func TestPageDataFindString(t *testing.T) {
	data := NewPageData(map[string]any{
		"outer": []any{
			map[string]any{"src": "https://maps.example/?center=1,2"},
		},
	})
	got := data.FindString(func(s string) bool { return containsAny(s, []string{"center="}) })
	if got != "https://maps.example/?center=1,2" {
		t.Errorf("FindString = %q", got)
	}
}
