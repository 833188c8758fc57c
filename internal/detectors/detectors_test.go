package detectors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LumiaBlack51/Clanguage-runtime-bug-detector/internal/core"
)

func parseSnippet(t *testing.T, src string) *core.ParsedUnit {
	t.Helper()
	unit, err := core.ParseSource(context.Background(), core.NewSourceUnit("snippet.c", src))
	require.NoError(t, err)
	t.Cleanup(unit.Close)
	return unit
}

func runDetector(t *testing.T, d core.Detector, src string) []core.Issue {
	t.Helper()
	issues, err := d.Run(parseSnippet(t, src))
	require.NoError(t, err)
	return issues
}

func TestUninitVarReadBeforeWrite(t *testing.T) {
	issues := runDetector(t, NewUninitVarDetector(false), `int main(void) {
    int x;
    int y = x + 1;
    return y;
}
`)
	require.Len(t, issues, 1)
	assert.Equal(t, core.CategoryUninitialized, issues[0].Category)
	assert.Equal(t, 3, issues[0].Line)
	assert.Contains(t, issues[0].Message, "'x'")
	assert.Equal(t, "int y = x + 1;", issues[0].Code)
}

// 默认刻意顺序不敏感：写之后的读仍然上报
func TestUninitVarReadAfterWriteStillReported(t *testing.T) {
	src := `int main(void) {
    int x;
    x = 1;
    int y = x + 1;
    return y;
}
`
	issues := runDetector(t, NewUninitVarDetector(false), src)
	require.Len(t, issues, 1)
	assert.Equal(t, 4, issues[0].Line)

	// 流敏感变体下写之后的读不再上报
	strict := runDetector(t, NewUninitVarDetector(true), src)
	assert.Empty(t, strict)
}

func TestUninitVarWriteOnlyIsSilent(t *testing.T) {
	issues := runDetector(t, NewUninitVarDetector(false), `int main(void) {
    int x;
    x = 5;
    return 0;
}
`)
	assert.Empty(t, issues)
}

func TestUninitVarInitializedDeclsSkipped(t *testing.T) {
	issues := runDetector(t, NewUninitVarDetector(false), `int total = 0;

int add(int a, int b) {
    int sum = a + b;
    return sum;
}
`)
	assert.Empty(t, issues)
}

// 野指针只看扫描结束后的最终标志，解引用出现在写之前也不上报
func TestWildPointerFinalFlagOnly(t *testing.T) {
	issues := runDetector(t, NewUninitVarDetector(false), `void f(int v) {
    int *q;
    int a = *q;
    q = &v;
}
`)
	// *q 处的读上报 Uninitialized，但 q 在扫描中被写过，不算野指针
	require.Len(t, issues, 1)
	assert.Equal(t, core.CategoryUninitialized, issues[0].Category)
}

func TestWildPointerNeverAssigned(t *testing.T) {
	issues := runDetector(t, NewUninitVarDetector(false), `void f(void) {
    int *q;
    int a = *q;
}
`)
	require.Len(t, issues, 2)
	assert.Equal(t, core.CategoryUninitialized, issues[0].Category)
	assert.Equal(t, core.CategoryWildPointer, issues[1].Category)
	assert.Equal(t, 3, issues[1].Line)
	assert.Contains(t, issues[1].Message, "wild pointer")
}

func TestStructFieldsNeverFlagged(t *testing.T) {
	issues := runDetector(t, NewUninitVarDetector(false), `struct Point {
    int x;
    int y;
};

int main(void) {
    return 0;
}
`)
	assert.Empty(t, issues)
}

func TestNullPointerDeref(t *testing.T) {
	issues := runDetector(t, NewNullPointerDetector(false), `int main(void) {
    int *p = NULL;
    *p = 5;
    return 0;
}
`)
	require.Len(t, issues, 1)
	assert.Equal(t, core.CategoryNullPointer, issues[0].Category)
	assert.Equal(t, 3, issues[0].Line)
	assert.Equal(t, "high", issues[0].Severity)
}

// 默认流不敏感：中间的重新赋值不清除空指针状态
func TestNullPointerReassignmentIgnoredByDefault(t *testing.T) {
	src := `int main(void) {
    int v = 0;
    int *p = NULL;
    p = &v;
    *p = 5;
    return 0;
}
`
	issues := runDetector(t, NewNullPointerDetector(false), src)
	require.Len(t, issues, 1)
	assert.Equal(t, 5, issues[0].Line)

	strict := runDetector(t, NewNullPointerDetector(true), src)
	assert.Empty(t, strict)
}

func TestNullPointerArrowAndSubscript(t *testing.T) {
	issues := runDetector(t, NewNullPointerDetector(false), `struct Node { int value; };

void f(void) {
    struct Node *n = NULL;
    int *arr = 0;
    n->value = 1;
    int x = arr[2];
}
`)
	require.Len(t, issues, 2)
	assert.Equal(t, 6, issues[0].Line)
	assert.Equal(t, 7, issues[1].Line)
}

func TestNullPointerNonNullInitIgnored(t *testing.T) {
	issues := runDetector(t, NewNullPointerDetector(false), `void f(int v) {
    int *p = &v;
    *p = 5;
}
`)
	assert.Empty(t, issues)
}

func TestLibraryHeaderMissing(t *testing.T) {
	issues := runDetector(t, NewLibraryHeaderDetector(), `#include <stdlib.h>

int main(void) {
    printf("hi\n");
    return 0;
}
`)
	require.Len(t, issues, 1)
	assert.Equal(t, core.CategoryHeader, issues[0].Category)
	assert.Equal(t, 4, issues[0].Line)
	assert.Equal(t, "call to 'printf' requires #include <stdio.h>", issues[0].Message)
}

func TestLibraryHeaderPresent(t *testing.T) {
	issues := runDetector(t, NewLibraryHeaderDetector(), `#include <stdio.h>
#include <string.h>

int main(void) {
    char buf[8];
    strcpy(buf, "hi");
    printf("%s\n", buf);
    return 0;
}
`)
	assert.Empty(t, issues)
}

// math 函数可由 math.h 或 tgmath.h 满足，消息列出全部候选
func TestLibraryHeaderAlternatives(t *testing.T) {
	issues := runDetector(t, NewLibraryHeaderDetector(), `int main(void) {
    double r = sqrt(2.0);
    return 0;
}
`)
	require.Len(t, issues, 1)
	assert.Equal(t, "call to 'sqrt' requires #include <math.h> or <tgmath.h>", issues[0].Message)

	satisfied := runDetector(t, NewLibraryHeaderDetector(), `#include <tgmath.h>

int main(void) {
    double r = sqrt(2.0);
    return 0;
}
`)
	assert.Empty(t, satisfied)
}

// 引号 include 也能满足库函数的头文件要求
func TestLibraryHeaderQuotedIncludeCounts(t *testing.T) {
	issues := runDetector(t, NewLibraryHeaderDetector(), `#include "stdio.h"

int main(void) {
    printf("hi\n");
    return 0;
}
`)
	assert.Empty(t, issues)
}

func TestHeaderSpelling(t *testing.T) {
	issues := runDetector(t, NewHeaderSpellingDetector(), `#include <stido.h>
#include <stdlib.h>
#include "my_utils.h"
`)
	require.Len(t, issues, 1)
	assert.Equal(t, core.CategoryHeaderSpelling, issues[0].Category)
	assert.Equal(t, 1, issues[0].Line)
	assert.Equal(t, "unknown system header <stido.h>, did you mean <stdio.h>?", issues[0].Message)
}

func TestHeaderSpellingIgnoresUnrelatedNames(t *testing.T) {
	issues := runDetector(t, NewHeaderSpellingDetector(), `#include <curl/curl.h>
`)
	assert.Empty(t, issues)
}
