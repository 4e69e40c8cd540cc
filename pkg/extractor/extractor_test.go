package extractor

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/uicontext/pkg/parser"
)

func extract(t *testing.T, path, src string) *Module {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	pm := parser.NewParserManagerWithSize(logger, 1)
	t.Cleanup(func() { pm.Close() })

	mod, err := NewExtractor(pm, logger).Extract(path, []byte(src))
	require.NoError(t, err)
	t.Cleanup(mod.Close)
	return mod
}

const barrel = `export { Button } from './core/Button';
export { Card as Tile, type CardProps } from './core/Card';
export type { Theme } from './theme';
export * from './hooks';
export * as icons from './icons';
export const VERSION = '1.0';
export function formatDate(d: Date): string { return d.toISOString(); }
const internal = 1;
export { internal as exposed };
export default Button;
`

func TestExtract_Exports(t *testing.T) {
	mod := extract(t, "src/index.ts", barrel)

	btn, ok := mod.Export("Button")
	require.True(t, ok)
	assert.Equal(t, ExportReExport, btn.Kind)
	assert.Equal(t, "./core/Button", btn.Source)
	assert.False(t, btn.TypeOnly)

	tile, ok := mod.Export("Tile")
	require.True(t, ok)
	assert.Equal(t, "Card", tile.Local)

	props, ok := mod.Export("CardProps")
	require.True(t, ok)
	assert.True(t, props.TypeOnly)

	theme, ok := mod.Export("Theme")
	require.True(t, ok)
	assert.True(t, theme.TypeOnly)

	assert.Equal(t, []string{"./hooks"}, mod.StarSources())

	icons, ok := mod.Export("icons")
	require.True(t, ok)
	assert.Equal(t, ExportNamespace, icons.Kind)

	version, ok := mod.Export("VERSION")
	require.True(t, ok)
	assert.Equal(t, ExportLocal, version.Kind)

	exposed, ok := mod.Export("exposed")
	require.True(t, ok)
	assert.Equal(t, "internal", exposed.Local)
	assert.Empty(t, exposed.Source)

	def, ok := mod.Export("default")
	require.True(t, ok)
	assert.Equal(t, "Button", def.Local)
}

func TestExtract_Declarations(t *testing.T) {
	mod := extract(t, "src/index.ts", barrel)

	assert.Equal(t, []string{"VERSION", "formatDate", "internal"}, mod.Order)

	d, ok := mod.Declaration("formatDate", DeclFunction)
	require.True(t, ok)
	assert.True(t, d.Exported)
	assert.Contains(t, mod.DeclarationText(d), "export function formatDate")

	_, ok = mod.Declaration("formatDate", DeclClass)
	assert.False(t, ok)

	internal, ok := mod.Declaration("internal")
	require.True(t, ok)
	assert.False(t, internal.Exported)
}

func TestExtract_Imports(t *testing.T) {
	src := `import React, { useState } from 'react';
import type { SizeProps } from '@vanguard/types';
import { type Theme, Colors as Palette } from '../theme';
import * as utils from './utils';
import './styles.css';
`
	mod := extract(t, "src/core/Button/Button.tsx", src)
	require.Len(t, mod.Imports, 7)

	react, ok := mod.Import("React")
	require.True(t, ok)
	assert.Equal(t, ImportDefault, react.Kind)

	size, ok := mod.Import("SizeProps")
	require.True(t, ok)
	assert.True(t, size.TypeOnly)
	assert.Equal(t, "@vanguard/types", size.Source)

	theme, ok := mod.Import("Theme")
	require.True(t, ok)
	assert.True(t, theme.TypeOnly)

	palette, ok := mod.Import("Palette")
	require.True(t, ok)
	assert.Equal(t, "Colors", palette.Imported)
	assert.False(t, palette.TypeOnly)

	ns, ok := mod.Import("utils")
	require.True(t, ok)
	assert.Equal(t, ImportNamespace, ns.Kind)

	assert.Equal(t, ImportSideEffect, mod.Imports[6].Kind)
}

func TestExtract_TypeDeclarations(t *testing.T) {
	src := `export interface ButtonProps { label: string }
type Size = 'sm' | 'lg';
export enum Tone { Neutral, Danger }
interface ButtonProps { icon?: string }
`
	mod := extract(t, "types.ts", src)

	props, ok := mod.Declaration("ButtonProps", DeclInterface)
	require.True(t, ok)
	assert.True(t, props.Exported)
	assert.Contains(t, mod.DeclarationText(props), "label")
	assert.NotContains(t, mod.DeclarationText(props), "icon")

	size, ok := mod.Declaration("Size", DeclTypeAlias)
	require.True(t, ok)
	assert.False(t, size.Exported)
	assert.Equal(t, "type Size = 'sm' | 'lg';", mod.DeclarationText(size))

	_, ok = mod.Declaration("Tone", DeclEnum)
	assert.True(t, ok)

	exp, ok := mod.Export("ButtonProps")
	require.True(t, ok)
	assert.True(t, exp.TypeOnly)
}

func TestCallable(t *testing.T) {
	src := `import { forwardRef, memo } from 'react';
export const Arrow = ({ label }: ArrowProps) => <span>{label}</span>;
export function Plain(props: PlainProps, extra?: number): JSX.Element { return <div />; }
export const Wrapped = forwardRef<HTMLDivElement, WrappedProps>((props, ref) => <div ref={ref} />);
const Inner = (p: InnerProps) => <i />;
export const Memoized = memo(Inner);
export const Constant = { a: 1 };
`
	mod := extract(t, "C.tsx", src)

	arrow, _ := mod.Declaration("Arrow")
	fn := mod.Callable(arrow)
	require.NotNil(t, fn)
	assert.Equal(t, "arrow_function", fn.Kind())
	assert.Equal(t, "ArrowProps", mod.FirstParamTypeName(fn))

	plain, _ := mod.Declaration("Plain")
	fn = mod.Callable(plain)
	require.NotNil(t, fn)
	params := mod.Parameters(fn)
	require.Len(t, params, 2)
	assert.Equal(t, Param{Name: "props", Type: "PlainProps"}, params[0])
	assert.Equal(t, Param{Name: "extra", Type: "number", Optional: true}, params[1])
	assert.Equal(t, "JSX.Element", mod.ReturnType(fn))

	wrapped, _ := mod.Declaration("Wrapped")
	assert.Equal(t, "forwardRef", mod.WrapperName(Initializer(wrapped)))
	assert.NotNil(t, mod.Callable(wrapped))

	memoized, _ := mod.Declaration("Memoized")
	fn = mod.Callable(memoized)
	require.NotNil(t, fn)
	assert.Equal(t, "InnerProps", mod.FirstParamTypeName(fn))

	constant, _ := mod.Declaration("Constant")
	assert.Nil(t, mod.Callable(constant))
}

func TestUnquote(t *testing.T) {
	assert.Equal(t, "./mod", Unquote(`'./mod'`))
	assert.Equal(t, "./mod", Unquote(`"./mod"`))
	assert.Equal(t, "x", Unquote("`x`"))
	assert.Equal(t, `'x"`, Unquote(`'x"`))
	assert.Equal(t, "a", Unquote("a"))
}
