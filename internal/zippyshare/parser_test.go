package zippyshare

import (
	"errors"
	"strings"
	"testing"
)

const pageURL = "https://www107.zippyshare.com/v/x7kQ9pWm/file.html"

func TestPageParser_ArithmeticHref(t *testing.T) {
	// Newer page revision: the parenthesized part is a literal expression.
	html := `<html><head><title>Zippyshare.com</title></head><body>
	<script type="text/javascript">
	    document.getElementById('dlbutton').href = "/d/x7kQ9pWm/" + (574614 % 51245 + 574614 % 913) + "/My%20File.zip";
	</script>
	</body></html>`

	info, err := NewPageParser().Parse(pageURL, html)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	want := "https://www107.zippyshare.com/d/x7kQ9pWm/11256/My%20File.zip"
	if info.DownloadURL != want {
		t.Errorf("DownloadURL = %q, want %q", info.DownloadURL, want)
	}
	if info.PageURL != pageURL {
		t.Errorf("PageURL = %q, want %q", info.PageURL, pageURL)
	}
}

func TestPageParser_OmgVariant(t *testing.T) {
	tests := []struct {
		name string
		omg  string
		want string
	}{
		// a=745: ceil(745/3)=249, floor(745/3)=248; b=265
		{name: "omg not f rounds up", omg: "t", want: "https://www107.zippyshare.com/d/x7kQ9pWm/514/data.tar.gz"},
		{name: "omg f rounds down", omg: "f", want: "https://www107.zippyshare.com/d/x7kQ9pWm/513/data.tar.gz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html := `<html><body>
	<script type="text/javascript">
	    var a = 745;
	    var b = 265;
	    document.getElementById('dlbutton').omg = "` + tt.omg + `";
	    document.getElementById('dlbutton').href = "/d/x7kQ9pWm/" + (a + b) + "/data.tar.gz";
	</script>
	</body></html>`

			info, err := NewPageParser().Parse(pageURL, html)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if info.DownloadURL != tt.want {
				t.Errorf("DownloadURL = %q, want %q", info.DownloadURL, tt.want)
			}
		})
	}
}

func TestPageParser_ThreeVarHref(t *testing.T) {
	html := `<html><body>
	<script type="text/javascript">
	    var a = 63;
	    var b = 421;
	    var c = 9;
	    document.getElementById('dlbutton').href = "/d/J8sQ2c4R/"+(a + b + c - 4)+"/Sample.pdf";
	</script>
	</body></html>`
	url := "https://www2.zippyshare.com/v/J8sQ2c4R/file.html"

	info, err := NewPageParser().Parse(url, html)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	want := "https://www2.zippyshare.com/d/J8sQ2c4R/489/Sample.pdf"
	if info.DownloadURL != want {
		t.Errorf("DownloadURL = %q, want %q", info.DownloadURL, want)
	}
}

func TestPageParser_InfoCells(t *testing.T) {
	html := `<html><body>
	<font style="line-height:18px; font-size: 13px;">Sample.pdf</font>
	<font style="line-height:18px; font-size: 13px;">10.5 MB</font>
	<font style="line-height:18px; font-size: 13px;">24-11-2022</font>
	<script type="text/javascript">
	    document.getElementById('dlbutton').href = "/d/J8sQ2c4R/" + (10 + 5) + "/Sample.pdf";
	</script>
	</body></html>`

	info, err := NewPageParser().Parse(pageURL, html)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if info.Name != "Sample.pdf" {
		t.Errorf("Name = %q, want %q", info.Name, "Sample.pdf")
	}
	if info.Size != "10.5 MB" {
		t.Errorf("Size = %q, want %q", info.Size, "10.5 MB")
	}
	if info.DateUploaded != "24-11-2022" {
		t.Errorf("DateUploaded = %q, want %q", info.DateUploaded, "24-11-2022")
	}
}

func TestPageParser_MissingScript(t *testing.T) {
	tests := []struct {
		name string
		html string
	}{
		{name: "no scripts at all", html: `<html><body>nothing here</body></html>`},
		{name: "unrelated script", html: `<html><body><script>var x = 1;</script></body></html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPageParser().Parse(pageURL, tt.html)
			if err == nil {
				t.Fatal("expected error but got none")
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Errorf("got %T, want *ParseError", err)
			}
			if !strings.Contains(err.Error(), "download button") {
				t.Errorf("unexpected error message: %v", err)
			}
		})
	}
}

func TestHelpers(t *testing.T) {
	value := `"/d/abc/" + (1 + 2) + "/name.zip"`
	if got := firstQuoted(value); got != "/d/abc/" {
		t.Errorf("firstQuoted = %q", got)
	}
	if got := lastQuoted(value); got != "/name.zip" {
		t.Errorf("lastQuoted = %q", got)
	}
	if got := betweenParens(value); got != "1 + 2" {
		t.Errorf("betweenParens = %q", got)
	}
	if got := hostPrefix("https://www42.zippyshare.com/v/a/file.html"); got != "https://www42" {
		t.Errorf("hostPrefix = %q", got)
	}
}

func TestEvalExpression(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"1 + 2", "3"},
		{"574614 % 51245 + 574614 % 913", "11256"},
		{"(249 + 265)", "514"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := evalExpression(tt.expr)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("evalExpression(%q) = %q, want %q", tt.expr, got, tt.want)
			}
		})
	}

	if _, err := evalExpression("a + b"); err == nil {
		t.Error("expected error for unbound variables")
	}
}
