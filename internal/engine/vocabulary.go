package engine

// Vocabulary maps canonical skill names to the lowercase spellings that
// should be recognized in free text. The canonical name itself does not have
// to be listed among the variants.
type Vocabulary map[string][]string

// DefaultVocabulary returns the built-in skill table. The vocabulary is
// configuration data: callers may pass their own table to NewSkillExtractor
// instead.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		// Programming languages
		"Python":     {"python"},
		"Java":       {"java"},
		"JavaScript": {"javascript", "js"},
		"TypeScript": {"typescript"},
		"C#":         {"c#", "csharp"},
		"C++":        {"c++", "cpp"},
		"Go":         {"go", "golang"},
		"Rust":       {"rust"},
		"PHP":        {"php"},
		"Ruby":       {"ruby"},
		"Swift":      {"swift"},
		"Kotlin":     {"kotlin"},
		"Scala":      {"scala"},
		"MATLAB":     {"matlab"},
		"SQL":        {"sql"},

		// Cloud platforms
		"Azure": {"azure"},
		"AWS":   {"aws", "amazon web services"},
		"GCP":   {"gcp", "google cloud"},

		// DevOps and infrastructure
		"Docker":     {"docker"},
		"Kubernetes": {"kubernetes", "k8s"},
		"Terraform":  {"terraform"},
		"Ansible":    {"ansible"},
		"Jenkins":    {"jenkins"},
		"GitLab":     {"gitlab"},
		"GitHub":     {"github"},
		"CI/CD":      {"ci/cd", "cicd"},
		"DevOps":     {"devops"},
		"Linux":      {"linux"},
		"Bash":       {"bash"},
		"Git":        {"git"},

		// Databases
		"PostgreSQL":    {"postgresql", "postgres"},
		"MySQL":         {"mysql"},
		"MongoDB":       {"mongodb", "mongo"},
		"Redis":         {"redis"},
		"Elasticsearch": {"elasticsearch"},
		"Cassandra":     {"cassandra"},
		"DynamoDB":      {"dynamodb"},
		"Snowflake":     {"snowflake"},
		"BigQuery":      {"bigquery"},
		"Oracle":        {"oracle"},
		"SQL Server":    {"sql server"},

		// ML and AI
		"Machine Learning": {"machine learning", "ml"},
		"Deep Learning":    {"deep learning"},
		"Neural Networks":  {"neural networks", "neural network"},
		"TensorFlow":       {"tensorflow"},
		"PyTorch":          {"pytorch"},
		"scikit-learn":     {"scikit-learn", "sklearn"},
		"Keras":            {"keras"},
		"NLP":              {"nlp", "natural language processing"},
		"Computer Vision":  {"computer vision"},
		"LLM":              {"llm", "llms", "large language models"},
		"LangChain":        {"langchain"},
		"Semantic Kernel":  {"semantic kernel"},
		"Transformers":     {"transformers"},

		// Frameworks and libraries
		"React":         {"react", "reactjs"},
		"Angular":       {"angular"},
		"Vue":           {"vue", "vuejs"},
		"FastAPI":       {"fastapi"},
		"Django":        {"django"},
		"Flask":         {"flask"},
		"Spring":        {"spring"},
		"Express":       {"express"},
		"Node.js":       {"node.js", "nodejs", "node"},
		"Next.js":       {"next.js", "nextjs"},
		".NET":          {".net", "dotnet"},
		"ASP.NET":       {"asp.net"},
		"Microservices": {"microservices"},

		// Data and analytics
		"Data Science": {"data science"},
		"Spark":        {"spark"},
		"Hadoop":       {"hadoop"},
		"ETL":          {"etl"},
		"Tableau":      {"tableau"},
		"Power BI":     {"power bi"},
		"Pandas":       {"pandas"},
		"NumPy":        {"numpy"},

		// Other
		"REST API":   {"rest api", "rest"},
		"GraphQL":    {"graphql"},
		"Serverless": {"serverless"},
		"Kafka":      {"kafka"},
		"RabbitMQ":   {"rabbitmq"},
		"gRPC":       {"grpc"},
		"Protobuf":   {"protobuf", "protocol buffers"},
		"WebSocket":  {"websocket", "websockets"},
		"Agile":      {"agile"},
		"Scrum":      {"scrum"},
		"Jira":       {"jira"},
	}
}
