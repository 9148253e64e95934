package convert

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"bionic/common"
	"bionic/config"
)

// bookInfo is what is known about processed document for output naming.
type bookInfo struct {
	SrcName  string
	Format   common.InputFmt
	Title    string
	Authors  string
	Language string
}

// Values is a struct that holds variables we make available for template expansion
type Values struct {
	Context    string
	Title      string
	Authors    string
	Language   string
	Format     string
	SourceFile string
}

func expandTemplate(info bookInfo, name config.TemplateFieldName, field string) (string, error) {
	funcMap := sprig.FuncMap()

	tmpl, err := template.New(string(name)).Funcs(funcMap).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	values := Values{
		Context:    string(name),
		Title:      info.Title,
		Authors:    info.Authors,
		Language:   info.Language,
		Format:     info.Format.String(),
		SourceFile: strings.TrimSuffix(filepath.Base(info.SrcName), filepath.Ext(info.SrcName)),
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}
