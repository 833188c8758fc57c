package detectors

// libcHeaders 标准库函数名到可接受头文件的静态表
// OR 语义：任意一个头文件出现即满足
var libcHeaders = map[string][]string{
	// stdio.h
	"printf": {"stdio.h"}, "fprintf": {"stdio.h"}, "sprintf": {"stdio.h"},
	"snprintf": {"stdio.h"}, "scanf": {"stdio.h"}, "fscanf": {"stdio.h"},
	"sscanf": {"stdio.h"}, "vprintf": {"stdio.h"}, "vfprintf": {"stdio.h"},
	"vsprintf": {"stdio.h"}, "vsnprintf": {"stdio.h"}, "fopen": {"stdio.h"},
	"freopen": {"stdio.h"}, "fclose": {"stdio.h"}, "fflush": {"stdio.h"},
	"fgetc": {"stdio.h"}, "fgets": {"stdio.h"}, "fputc": {"stdio.h"},
	"fputs": {"stdio.h"}, "getc": {"stdio.h"}, "getchar": {"stdio.h"},
	"gets": {"stdio.h"}, "putc": {"stdio.h"}, "putchar": {"stdio.h"},
	"puts": {"stdio.h"}, "ungetc": {"stdio.h"}, "fread": {"stdio.h"},
	"fwrite": {"stdio.h"}, "fseek": {"stdio.h"}, "ftell": {"stdio.h"},
	"rewind": {"stdio.h"}, "fgetpos": {"stdio.h"}, "fsetpos": {"stdio.h"},
	"clearerr": {"stdio.h"}, "feof": {"stdio.h"}, "ferror": {"stdio.h"},
	"perror": {"stdio.h"}, "remove": {"stdio.h"}, "rename": {"stdio.h"},
	"tmpfile": {"stdio.h"}, "tmpnam": {"stdio.h"}, "setbuf": {"stdio.h"},
	"setvbuf": {"stdio.h"},

	// stdlib.h
	"malloc": {"stdlib.h"}, "calloc": {"stdlib.h"}, "realloc": {"stdlib.h"},
	"free": {"stdlib.h"}, "abort": {"stdlib.h"}, "exit": {"stdlib.h"},
	"atexit": {"stdlib.h"}, "system": {"stdlib.h"}, "getenv": {"stdlib.h"},
	"atoi": {"stdlib.h"}, "atol": {"stdlib.h"}, "atoll": {"stdlib.h"},
	"atof": {"stdlib.h"}, "strtol": {"stdlib.h"}, "strtoul": {"stdlib.h"},
	"strtoll": {"stdlib.h"}, "strtoull": {"stdlib.h"}, "strtod": {"stdlib.h"},
	"strtof": {"stdlib.h"}, "rand": {"stdlib.h"}, "srand": {"stdlib.h"},
	"qsort": {"stdlib.h"}, "bsearch": {"stdlib.h"}, "abs": {"stdlib.h"},
	"labs": {"stdlib.h"}, "llabs": {"stdlib.h"}, "div": {"stdlib.h"},
	"ldiv": {"stdlib.h"}, "lldiv": {"stdlib.h"}, "mblen": {"stdlib.h"},
	"mbtowc": {"stdlib.h"}, "wctomb": {"stdlib.h"}, "mbstowcs": {"stdlib.h"},
	"wcstombs": {"stdlib.h"},

	// string.h
	"strcpy": {"string.h"}, "strncpy": {"string.h"}, "strcat": {"string.h"},
	"strncat": {"string.h"}, "strcmp": {"string.h"}, "strncmp": {"string.h"},
	"strchr": {"string.h"}, "strrchr": {"string.h"}, "strstr": {"string.h"},
	"strlen": {"string.h"}, "strtok": {"string.h"}, "strerror": {"string.h"},
	"strspn": {"string.h"}, "strcspn": {"string.h"}, "strpbrk": {"string.h"},
	"strcoll": {"string.h"}, "strxfrm": {"string.h"},
	"memcpy": {"string.h"}, "memmove": {"string.h"}, "memcmp": {"string.h"},
	"memchr": {"string.h"}, "memset": {"string.h"},

	// math.h（tgmath.h 的泛型宏同样能满足这些调用）
	"sin": {"math.h", "tgmath.h"}, "cos": {"math.h", "tgmath.h"},
	"tan": {"math.h", "tgmath.h"}, "asin": {"math.h", "tgmath.h"},
	"acos": {"math.h", "tgmath.h"}, "atan": {"math.h", "tgmath.h"},
	"atan2": {"math.h", "tgmath.h"}, "sinh": {"math.h", "tgmath.h"},
	"cosh": {"math.h", "tgmath.h"}, "tanh": {"math.h", "tgmath.h"},
	"exp": {"math.h", "tgmath.h"}, "log": {"math.h", "tgmath.h"},
	"log10": {"math.h", "tgmath.h"}, "pow": {"math.h", "tgmath.h"},
	"sqrt": {"math.h", "tgmath.h"}, "ceil": {"math.h", "tgmath.h"},
	"floor": {"math.h", "tgmath.h"}, "fabs": {"math.h", "tgmath.h"},
	"fmod": {"math.h", "tgmath.h"}, "ldexp": {"math.h", "tgmath.h"},
	"frexp": {"math.h", "tgmath.h"}, "modf": {"math.h", "tgmath.h"},
	"round": {"math.h", "tgmath.h"}, "trunc": {"math.h", "tgmath.h"},

	// ctype.h
	"isalpha": {"ctype.h"}, "isdigit": {"ctype.h"}, "isalnum": {"ctype.h"},
	"isspace": {"ctype.h"}, "isupper": {"ctype.h"}, "islower": {"ctype.h"},
	"ispunct": {"ctype.h"}, "isprint": {"ctype.h"}, "iscntrl": {"ctype.h"},
	"isgraph": {"ctype.h"}, "isxdigit": {"ctype.h"},
	"toupper": {"ctype.h"}, "tolower": {"ctype.h"},

	// time.h
	"time": {"time.h"}, "clock": {"time.h"}, "difftime": {"time.h"},
	"mktime": {"time.h"}, "asctime": {"time.h"}, "ctime": {"time.h"},
	"gmtime": {"time.h"}, "localtime": {"time.h"}, "strftime": {"time.h"},

	// assert.h
	"assert": {"assert.h"},

	// stdarg.h
	"va_start": {"stdarg.h"}, "va_arg": {"stdarg.h"},
	"va_end": {"stdarg.h"}, "va_copy": {"stdarg.h"},

	// setjmp.h
	"setjmp": {"setjmp.h"}, "longjmp": {"setjmp.h"},

	// signal.h
	"signal": {"signal.h"}, "raise": {"signal.h"},

	// locale.h
	"setlocale": {"locale.h"}, "localeconv": {"locale.h"},
}

