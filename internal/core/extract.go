package core

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// VariableDecl 一个声明点（按声明点去重，不按名字去重）
type VariableDecl struct {
	Name          string
	DeclaredType  string
	IsPointer     bool
	IsInitialized bool // 仅允许 false -> true 的单向变化
	IsParameter   bool
	InitText      string // 初始化表达式文本（无初始化时为空）
	Scope         string // 所在函数名，全局为 "global"
	Line          int
	Col           int
}

// FunctionCall 一次函数调用
type FunctionCall struct {
	Callee string
	Line   int
}

// IncludeDirective 一条 include 指令
type IncludeDirective struct {
	Header string // 裸头文件名，如 stdio.h
	System bool   // <...> 为 true，"..." 为 false
	Line   int
}

// Occurrence 某个名字的一次文本出现
type Occurrence struct {
	Name  string
	Line  int
	Col   int
	Write bool // 出现点紧跟赋值运算符
}


// walk 迭代先序遍历，避免深树递归爆栈
func walk(root *sitter.Node, visit func(*sitter.Node)) {
	if root == nil {
		return
	}
	stack := []*sitter.Node{root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		visit(node)
		for i := int(node.NamedChildCount()) - 1; i >= 0; i-- {
			stack = append(stack, node.NamedChild(i))
		}
	}
}

// enclosingScope 返回节点所在函数名，不在函数内为 "global"
func (u *ParsedUnit) enclosingScope(node *sitter.Node) string {
	for p := node.Parent(); p != nil; p = p.Parent() {
		if p.Type() == "function_definition" {
			if name := u.functionName(p); name != "" {
				return name
			}
			return "global"
		}
	}
	return "global"
}

// functionName 取函数定义的名字
func (u *ParsedUnit) functionName(funcNode *sitter.Node) string {
	decl := funcNode.ChildByFieldName("declarator")
	for decl != nil {
		switch decl.Type() {
		case "identifier":
			return u.Text(decl)
		case "function_declarator", "pointer_declarator":
			decl = decl.ChildByFieldName("declarator")
		default:
			return ""
		}
	}
	return ""
}

// unwrapDeclarator 剥开声明符，返回标识符节点和是否为指针/函数声明符
func unwrapDeclarator(decl *sitter.Node) (ident *sitter.Node, pointer, function bool) {
	for decl != nil {
		switch decl.Type() {
		case "identifier":
			return decl, pointer, function
		case "pointer_declarator":
			pointer = true
			decl = decl.ChildByFieldName("declarator")
		case "array_declarator", "parenthesized_declarator":
			decl = decl.ChildByFieldName("declarator")
		case "function_declarator":
			function = true
			decl = decl.ChildByFieldName("declarator")
		default:
			return nil, pointer, function
		}
	}
	return nil, pointer, function
}

// Declarations 提取全部变量声明
// 结构体成员是 field_declaration 节点，结构上就不会进入结果
func (u *ParsedUnit) Declarations() []VariableDecl {
	var decls []VariableDecl

	walk(u.Root, func(node *sitter.Node) {
		switch node.Type() {
		case "declaration":
			typeNode := node.ChildByFieldName("type")
			declType := u.Text(typeNode)

			// 一条 declaration 可带多个声明符（int a, *b, c = 0;）
			for i := 0; i < int(node.NamedChildCount()); i++ {
				child := node.NamedChild(i)
				if child == typeNode {
					continue
				}

				var (
					ident   *sitter.Node
					pointer bool
					initTxt string
				)
				switch child.Type() {
				case "init_declarator":
					inner, ptr, fn := unwrapDeclarator(child.ChildByFieldName("declarator"))
					if fn {
						continue
					}
					ident, pointer = inner, ptr
					initTxt = strings.TrimSpace(u.Text(child.ChildByFieldName("value")))
				case "identifier", "pointer_declarator", "array_declarator":
					inner, ptr, fn := unwrapDeclarator(child)
					if fn {
						continue // 函数原型不是变量
					}
					ident, pointer = inner, ptr
				default:
					continue
				}
				if ident == nil {
					continue
				}

				decls = append(decls, VariableDecl{
					Name:          u.Text(ident),
					DeclaredType:  declType,
					IsPointer:     pointer,
					IsInitialized: initTxt != "",
					InitText:      initTxt,
					Scope:         u.enclosingScope(node),
					Line:          LineOf(node),
					Col:           ColumnOf(ident),
				})
			}

		case "parameter_declaration":
			ident, pointer, fn := unwrapDeclarator(node.ChildByFieldName("declarator"))
			if ident == nil || fn {
				return
			}
			decls = append(decls, VariableDecl{
				Name:          u.Text(ident),
				DeclaredType:  u.Text(node.ChildByFieldName("type")),
				IsPointer:     pointer,
				IsInitialized: true, // 参数视为已初始化
				IsParameter:   true,
				Scope:         u.enclosingScope(node),
				Line:          LineOf(node),
				Col:           ColumnOf(ident),
			})
		}
	})

	return decls
}

// Calls 提取全部按名字的函数调用
func (u *ParsedUnit) Calls() []FunctionCall {
	matches, err := u.Query(`(call_expression function: (identifier) @callee)`)
	if err != nil {
		return nil
	}

	var calls []FunctionCall
	for _, m := range matches {
		callee := m.Captures["callee"]
		if callee == nil {
			continue
		}
		calls = append(calls, FunctionCall{
			Callee: u.Text(callee),
			Line:   LineOf(callee),
		})
	}
	return calls
}

// Includes 提取全部 include 指令
func (u *ParsedUnit) Includes() []IncludeDirective {
	matches, err := u.Query(`(preproc_include path: (_) @path)`)
	if err != nil {
		return nil
	}

	var includes []IncludeDirective
	for _, m := range matches {
		path := m.Captures["path"]
		if path == nil {
			continue
		}
		raw := u.Text(path)
		system := path.Type() == "system_lib_string"
		header := strings.Trim(raw, "<>\" \t")
		includes = append(includes, IncludeDirective{
			Header: header,
			System: system,
			Line:   LineOf(path),
		})
	}
	return includes
}

// isWriteOccurrence 判断标识符后的下一个非空白 token 是否为赋值运算符
// 比较运算符（== <= >= !=）不算，自增自减也不算
func (u *ParsedUnit) isWriteOccurrence(node *sitter.Node) bool {
	src := u.Source
	i := int(node.EndByte())
	for i < len(src) && (src[i] == ' ' || src[i] == '\t') {
		i++
	}
	if i >= len(src) {
		return false
	}
	switch src[i] {
	case '=':
		return i+1 >= len(src) || src[i+1] != '='
	case '+', '-', '*', '/', '%':
		return i+1 < len(src) && src[i+1] == '='
	}
	return false
}

// Usages 某个名字的全部文本出现（任意作用域）
// 成员名是 field_identifier 节点，天然不会混入
func (u *ParsedUnit) Usages(name string) []Occurrence {
	var occs []Occurrence
	walk(u.Root, func(node *sitter.Node) {
		if node.Type() != "identifier" || u.Text(node) != name {
			return
		}
		// 声明符里的标识符是声明点本身，不算使用
		if insideDeclarator(node) {
			return
		}
		occs = append(occs, Occurrence{
			Name:  name,
			Line:  LineOf(node),
			Col:   ColumnOf(node),
			Write: u.isWriteOccurrence(node),
		})
	})
	return occs
}

// insideDeclarator 标识符是否为声明符本体（而不是初始化表达式的一部分）
func insideDeclarator(node *sitter.Node) bool {
	child := node
	for p := node.Parent(); p != nil; p = p.Parent() {
		switch p.Type() {
		case "init_declarator":
			decl := p.ChildByFieldName("declarator")
			return decl != nil && containsNode(decl, child)
		case "declaration", "parameter_declaration":
			typeNode := p.ChildByFieldName("type")
			return typeNode == nil || !containsNode(typeNode, child)
		case "binary_expression", "call_expression", "assignment_expression",
			"subscript_expression", "pointer_expression", "argument_list":
			return false
		}
	}
	return false
}

// containsNode 按字节区间判断包含关系
func containsNode(outer, inner *sitter.Node) bool {
	return outer.StartByte() <= inner.StartByte() && inner.EndByte() <= outer.EndByte()
}

// Dereferences 某个名字作为 *、-> 或 [...] 操作数的全部出现
func (u *ParsedUnit) Dereferences(name string) []Occurrence {
	var occs []Occurrence

	record := func(ident *sitter.Node) {
		occs = append(occs, Occurrence{
			Name: name,
			Line: LineOf(ident),
			Col:  ColumnOf(ident),
		})
	}

	walk(u.Root, func(node *sitter.Node) {
		switch node.Type() {
		case "pointer_expression":
			// pointer_expression 同时覆盖 *p 和 &p，只要解引用
			arg := node.ChildByFieldName("argument")
			if arg == nil || arg.Type() != "identifier" || u.Text(arg) != name {
				return
			}
			for i := 0; i < int(node.ChildCount()); i++ {
				if node.Child(i).Type() == "*" {
					record(arg)
					return
				}
			}
		case "field_expression":
			arg := node.ChildByFieldName("argument")
			if arg == nil || arg.Type() != "identifier" || u.Text(arg) != name {
				return
			}
			for i := 0; i < int(node.ChildCount()); i++ {
				if node.Child(i).Type() == "->" {
					record(arg)
					return
				}
			}
		case "subscript_expression":
			arg := node.ChildByFieldName("argument")
			if arg != nil && arg.Type() == "identifier" && u.Text(arg) == name {
				record(arg)
			}
		}
	})

	return occs
}
