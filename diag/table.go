package diag

// An ID is the stable numeric identity of one diagnostic kind.
type ID int

// All diagnostic IDs, one per distinct message.
const (
	invalidID ID = iota

	// Lexer.
	ErrUnterminatedString
	ErrUnterminatedChar
	ErrUnterminatedBlockComment
	WarnNestedBlockComment
	WarnTrigraphConverted
	WarnTrigraphIgnored
	ExtBCPLComment
	ExtHexFloat
	ExtDollarInIdent
	WarnMinMaxDeprecated
	ErrInvalidCharacter
	ErrEmptyCharLiteral
	WarnMultiCharLiteral
	ErrInvalidNumber
	ErrInvalidSuffix
	ErrExponentNoDigits
	ErrHexFloatNoExponent
	WarnDupTypeQualifier

	// Preprocessor.
	ErrInvalidDirective
	ErrUnterminatedConditional
	ErrElseWithoutIf
	ErrEndifWithoutIf
	ErrExpectedFilename
	ErrFileNotFound
	ErrExpectedMacroName
	WarnMacroRedefined

	// Declaration specifiers.
	ErrDuplicateDeclSpec
	ErrInvalidSignSpec
	ErrInvalidWidthSpec
	ExtPlainComplex
	ExtIntegerComplex
	ErrInvalidComplex
	ErrThreadStorage

	// Parser.
	ErrExpected
	ErrExpectedExpr
	ErrUndeclaredIdent
	ErrRedefinition
	NotePreviousDef

	// Flow analyses.
	WarnDeadStore
	WarnDeadInit
	WarnDeadIncrement
	WarnUninitValue

	// Path-sensitive checkers.
	WarnLeak
	WarnUseAfterRelease
	WarnReleaseNotOwned
	NotePathPiece

	numIDs
)

type info struct {
	Class  Class
	Format string
}

// The one central table. Adding an ID above without a row here
// is caught by lookup at first use.
var table = [numIDs]info{
	ErrUnterminatedString:       {Error, "missing terminating '\"' character"},
	ErrUnterminatedChar:         {Error, "missing terminating ' character"},
	ErrUnterminatedBlockComment: {Error, "unterminated /* comment"},
	WarnNestedBlockComment:      {Warning, "'/*' within block comment"},
	WarnTrigraphConverted:       {Warning, "trigraph converted to '%0' character"},
	WarnTrigraphIgnored:         {Warning, "trigraph ignored"},
	ExtBCPLComment:              {Extension, "// comments are not allowed in this language"},
	ExtHexFloat:                 {Extension, "hexadecimal floating constants are a C99 feature"},
	ExtDollarInIdent:            {Extension, "'$' in identifier"},
	WarnMinMaxDeprecated:        {Warning, "minimum/maximum operators are deprecated"},
	ErrInvalidCharacter:         {Error, "invalid character in input"},
	ErrEmptyCharLiteral:         {Error, "empty character constant"},
	WarnMultiCharLiteral:        {Warning, "multi-character character constant"},
	ErrInvalidNumber:            {Error, "invalid numeric constant"},
	ErrInvalidSuffix:            {Error, "invalid suffix '%0' on %1 constant"},
	ErrExponentNoDigits:         {Error, "exponent has no digits"},
	ErrHexFloatNoExponent:       {Error, "hexadecimal floating constant requires an exponent"},
	WarnDupTypeQualifier:        {ExtWarn, "duplicate '%0' declaration specifier"},

	ErrInvalidDirective:        {Error, "invalid preprocessing directive"},
	ErrUnterminatedConditional: {Error, "unterminated conditional directive"},
	ErrElseWithoutIf:           {Error, "#else without #if"},
	ErrEndifWithoutIf:          {Error, "#endif without #if"},
	ErrExpectedFilename:        {Error, "expected \"FILENAME\" or <FILENAME>"},
	ErrFileNotFound:            {Fatal, "'%0' file not found"},
	ErrExpectedMacroName:       {Error, "macro name missing"},
	WarnMacroRedefined:         {Warning, "'%0' macro redefined"},

	ErrDuplicateDeclSpec: {Error, "duplicate '%0' declaration specifier"},
	ErrInvalidSignSpec:   {Error, "'%0' cannot be signed or unsigned"},
	ErrInvalidWidthSpec:  {Error, "'%0 %1' is invalid"},
	ExtPlainComplex:      {Extension, "plain '_Complex' requires a type specifier; assuming '_Complex double'"},
	ExtIntegerComplex:    {Extension, "complex integer types are an extension"},
	ErrInvalidComplex:    {Error, "'_Complex %0' is invalid"},
	ErrThreadStorage:     {Error, "'__thread' is only allowed with '__static' and 'extern'"},

	ErrExpected:        {Error, "expected %0"},
	ErrExpectedExpr:    {Error, "expected expression"},
	ErrUndeclaredIdent: {Error, "use of undeclared identifier '%0'"},
	ErrRedefinition:    {Error, "redefinition of '%0'"},
	NotePreviousDef:    {Note, "previous definition is here"},

	WarnDeadStore:     {Warning, "Value stored to '%0' is never read"},
	WarnDeadInit:      {Warning, "Value stored to '%0' during its initialization is never read"},
	WarnDeadIncrement: {Warning, "The value of the increment of '%0' is never read"},
	WarnUninitValue:   {Warning, "use of uninitialized variable '%0'"},

	WarnLeak:            {Warning, "%0"},
	WarnUseAfterRelease: {Warning, "%0"},
	WarnReleaseNotOwned: {Warning, "%0"},
	NotePathPiece:       {Note, "%0"},
}

func lookup(id ID) info {
	if id <= invalidID || id >= numIDs || table[id].Format == "" {
		panic("unknown diagnostic ID")
	}
	return table[id]
}

// Class returns the declared class of an ID.
func (id ID) Class() Class { return lookup(id).Class }
