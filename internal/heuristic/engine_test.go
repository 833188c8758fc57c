package heuristic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LumiaBlack51/Clanguage-runtime-bug-detector/internal/core"
)

func scanSource(t *testing.T, cfg Config, src string) []core.Issue {
	t.Helper()
	return NewEngine(cfg).ScanUnit(core.NewSourceUnit("snippet.c", src))
}

func TestEngineUninitializedRead(t *testing.T) {
	issues := scanSource(t, Config{}, `#include <stdlib.h>

int main(void) {
    int x;
    printf("%d\n", x);
    return 0;
}
`)
	require.Len(t, issues, 2)
	assert.Equal(t, core.CategoryHeader, issues[0].Category)
	assert.Equal(t, 5, issues[0].Line)
	assert.Equal(t, "call to 'printf' requires #include <stdio.h>", issues[0].Message)
	assert.Equal(t, core.CategoryUninitialized, issues[1].Category)
	assert.Equal(t, 5, issues[1].Line)
	assert.Contains(t, issues[1].Message, "'x'")
}

// 没有函数包裹的裸片段也要能扫
func TestEngineBareSnippet(t *testing.T) {
	issues := scanSource(t, Config{}, "int x;\nprintf(\"%d\", x);\n")
	require.Len(t, issues, 2)
	assert.Equal(t, core.CategoryHeader, issues[0].Category)
	assert.Equal(t, 2, issues[0].Line)
	assert.Equal(t, core.CategoryUninitialized, issues[1].Category)
	assert.Equal(t, 2, issues[1].Line)
}

func TestEngineNullPointerDeref(t *testing.T) {
	issues := scanSource(t, Config{}, `int main(void) {
    int *p = NULL;
    *p = 5;
    return 0;
}
`)
	require.Len(t, issues, 1)
	assert.Equal(t, core.CategoryNullPointer, issues[0].Category)
	assert.Equal(t, 3, issues[0].Line)
}

func TestEngineWildPointerDeref(t *testing.T) {
	issues := scanSource(t, Config{}, `int main(void) {
    int *q;
    *q = 1;
    return 0;
}
`)
	require.Len(t, issues, 1)
	assert.Equal(t, core.CategoryWildPointer, issues[0].Category)
	assert.Equal(t, 3, issues[0].Line)
}

// 默认模式下重新赋值不洗白空指针；流敏感变体会
func TestEngineNullReassignment(t *testing.T) {
	src := `int main(void) {
    int v = 0;
    int *p = NULL;
    p = &v;
    *p = 5;
    return 0;
}
`
	issues := scanSource(t, Config{}, src)
	require.Len(t, issues, 1)
	assert.Equal(t, core.CategoryNullPointer, issues[0].Category)
	assert.Equal(t, 5, issues[0].Line)

	strict := scanSource(t, Config{StrictFlow: true}, src)
	assert.Empty(t, strict)
}

func TestEngineScopeShadowing(t *testing.T) {
	issues := scanSource(t, Config{}, `int main(void) {
    int a = 1;
    {
        int a;
        int b = a;
    }
    return a;
}
`)
	require.Len(t, issues, 1)
	assert.Equal(t, core.CategoryUninitialized, issues[0].Category)
	assert.Equal(t, 5, issues[0].Line)
	assert.Contains(t, issues[0].Message, "'a'")
}

func TestEngineStructMembersSkipped(t *testing.T) {
	issues := scanSource(t, Config{}, `struct Node {
    int value;
    struct Node *next;
};

typedef struct {
    int id;
} Record;

int main(void) {
    return 0;
}
`)
	assert.Empty(t, issues)
}

// 字面量里的花括号不得干扰作用域计数
func TestEngineBracesInsideStringLiteral(t *testing.T) {
	issues := scanSource(t, Config{}, `int main(void) {
    char *s = "}}}{{{";
    int y;
    int z = y;
    return z;
}
`)
	require.Len(t, issues, 1)
	assert.Equal(t, core.CategoryUninitialized, issues[0].Category)
	assert.Equal(t, 4, issues[0].Line)
	assert.Contains(t, issues[0].Message, "'y'")
}

func TestEngineInfiniteLoopsAndFormat(t *testing.T) {
	issues := scanSource(t, Config{}, `#include <stdio.h>

int main(void) {
    int x = 3;
    for (;;) { }
    while (1) { x++; }
    while (1) { break; }
    printf("%d %d\n", x);
    printf("%d\n", x, x);
    return 0;
}
`)
	require.Len(t, issues, 4)
	assert.Equal(t, core.CategoryInfiniteLoop, issues[0].Category)
	assert.Equal(t, 5, issues[0].Line)
	assert.Equal(t, core.CategoryInfiniteLoop, issues[1].Category)
	assert.Equal(t, 6, issues[1].Line)
	assert.Equal(t, core.CategoryFormat, issues[2].Category)
	assert.Equal(t, 8, issues[2].Line)
	assert.Contains(t, issues[2].Message, "too few arguments")
	assert.Equal(t, core.CategoryFormat, issues[3].Category)
	assert.Equal(t, 9, issues[3].Line)
	assert.Contains(t, issues[3].Message, "too many arguments")
}

func TestEngineScanfAddressConvention(t *testing.T) {
	issues := scanSource(t, Config{}, `#include <stdio.h>

int main(void) {
    int x = 0;
    char name[20] = "";
    scanf("%d", x);
    scanf("%d", &x);
    scanf("%s", name);
    return 0;
}
`)
	require.Len(t, issues, 1)
	assert.Equal(t, core.CategoryFormat, issues[0].Category)
	assert.Equal(t, 6, issues[0].Line)
	assert.Equal(t, "'scanf' argument 'x' should be an address (use &x)", issues[0].Message)
}

func TestEngineHeaderSpelling(t *testing.T) {
	issues := scanSource(t, Config{}, `#include <stido.h>
#include "my_utils.h"

int main(void) {
    return 0;
}
`)
	require.Len(t, issues, 1)
	assert.Equal(t, core.CategoryHeaderSpelling, issues[0].Category)
	assert.Equal(t, 1, issues[0].Line)
	assert.Equal(t, "unknown system header <stido.h>, did you mean <stdio.h>?", issues[0].Message)
}

// math 族函数的头文件可由 math.h 或 tgmath.h 满足
func TestEngineMathHeaderAlternatives(t *testing.T) {
	issues := scanSource(t, Config{}, `int main(void) {
    double r;
    r = sqrt(2.0);
    return 0;
}
`)
	require.Len(t, issues, 1)
	assert.Equal(t, core.CategoryHeader, issues[0].Category)
	assert.Equal(t, "call to 'sqrt' requires #include <math.h> or <tgmath.h>", issues[0].Message)

	satisfied := scanSource(t, Config{}, `#include <tgmath.h>

int main(void) {
    double r;
    r = sqrt(2.0);
    return 0;
}
`)
	assert.Empty(t, satisfied)
}

// 同一输入扫描两次必须产生完全相同的结果
func TestEngineIdempotent(t *testing.T) {
	src := `#include <stdlib.h>

int main(void) {
    int x;
    int *p = NULL;
    printf("%d\n", x);
    *p = 5;
    while (1) { }
    return 0;
}
`
	first := scanSource(t, Config{}, src)
	second := scanSource(t, Config{}, src)
	assert.Equal(t, first, second)
	assert.NotEmpty(t, first)
}

func TestLineScannerViews(t *testing.T) {
	ls := &lineScanner{}

	structural, code := ls.scan(`printf("%d {", x); // trailing`)
	assert.NotContains(t, structural, "%d")
	assert.NotContains(t, structural, "{")
	assert.Contains(t, code, `"%d {"`)
	assert.NotContains(t, code, "trailing")

	// 块注释状态跨行保持
	structural, _ = ls.scan("int a; /* open")
	assert.Contains(t, structural, "int a;")
	assert.NotContains(t, structural, "open")
	structural, _ = ls.scan("still hidden */ int b;")
	assert.NotContains(t, structural, "hidden")
	assert.Contains(t, structural, "int b;")
}

func TestLooksLikeSignature(t *testing.T) {
	name, params, ok := looksLikeSignature("int add(int a, int b) {")
	require.True(t, ok)
	assert.Equal(t, "add", name)
	assert.Equal(t, "int a, int b", params)

	_, _, ok = looksLikeSignature("while (x > 0) {")
	assert.False(t, ok)
	_, _, ok = looksLikeSignature("if (ready) {")
	assert.False(t, ok)
	_, _, ok = looksLikeSignature("int add(int a, int b);")
	assert.False(t, ok)

	name, _, ok = looksLikeSignature("static char *dup_name(const char *src) {")
	require.True(t, ok)
	assert.Equal(t, "dup_name", name)
}

func TestParseDeclaration(t *testing.T) {
	syms := parseDeclaration("int a, *b, c = 0;", 7)
	require.Len(t, syms, 3)
	assert.Equal(t, "a", syms[0].name)
	assert.False(t, syms[0].initialized)
	assert.True(t, syms[1].isPointer)
	assert.True(t, syms[2].initialized)
	assert.Equal(t, 7, syms[0].declLine)

	assert.Nil(t, parseDeclaration("return x;", 1))
	assert.Nil(t, parseDeclaration("helper(a, b);", 1))

	multi := parseDeclaration("unsigned long long total;", 1)
	require.Len(t, multi, 1)
	assert.Equal(t, "unsigned long long", multi[0].baseType)

	ptr := parseDeclaration("char *s = NULL;", 3)
	require.Len(t, ptr, 1)
	assert.Equal(t, pointerNullLike, ptr[0].ptrClass)
}
