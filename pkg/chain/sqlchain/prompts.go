// Шаблоны промптов SQL цепочек.
//
// Формат "Question / SQLQuery / SQLResult / Answer" — это протокол:
// стоп-маркер "\n\nSQLResult:" обрывает генерацию до того, как модель
// сфабрикует результат запроса, а экстрактор команд (extract.go)
// разбирает текст по этим же маркерам.
package sqlchain

import "github.com/ilkoid/zveno-ai/pkg/prompt"

const promptSuffix = "\nOnly use the following tables: {table_info} \nQuestion: {input}"

const defaultTemplate = "Given an input question, first create a syntactically correct {dialect} query to run, " +
	"then look at the results of the query and return the answer. Unless the user specifies in his question " +
	"a specific number of examples he wishes to obtain, always limit your query to at most {top_k} results. " +
	"You can order the results by a relevant column to return the most interesting examples in the database.\n" +
	"Never query for all the columns from a specific table, only ask for a the few relevant columns given the question.\n" +
	"Pay attention to use only the column names that you can see in the schema description. " +
	"Be careful to not query for columns that do not exist. Also, pay attention to which column is in which table.\n\n" +
	"Use the following format:\n\n" +
	"Question: Question here\n\n" +
	"SQLQuery: SQL Query to run\n\n" +
	"SQLResult: Result of the SQLQuery \n\n" +
	"Answer:\n"

const cmdTemplate = "You are an SQL expert. Given an input question and the SQL query statments, " +
	"look at the results of the query and return the answer to the input question.  Must use the following format:\n" +
	"Question: Question here\n" +
	"SQLQuery: SQL Query to run\n" +
	"Answer: Final answer here\n"

const deciderTemplate = "Given the below input question and list of potential tables, " +
	"output a comma separated list of the table names that may be necessary to answer this question.\n" +
	"Question: {query} \n\n" +
	"Table Names: {table_names}\n" +
	"Relevant Table Names:"

// QueryPrompt — промпт генерации SQL по вопросу и схеме.
var QueryPrompt = prompt.New(defaultTemplate+promptSuffix,
	[]string{"input", "table_info", "dialect", "top_k"})

// CmdPrompt — промпт answer-этапа для заранее заданной SQL команды.
var CmdPrompt = prompt.New(cmdTemplate+promptSuffix,
	[]string{"input", "table_info", "top_k"})

// DeciderPrompt — промпт выбора релевантных таблиц (decider-этап).
var DeciderPrompt = prompt.New(deciderTemplate, []string{"query", "table_names"})
