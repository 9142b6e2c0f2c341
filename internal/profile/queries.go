package profile

// Query documents. They are fixed; anything that varies per user or campus
// travels as a variable.

const BasicInfoQuery = `
query {
    user {
        id
        login
        firstName
        lastName
        email
        campus
    }
}
`

const LastProjectsQuery = `
query LastProjects($like: String!, $checkpoint: String!, $piscine: String!) {
    transaction(
        where: {
            type: { _eq: "xp" }
            _and: [
                { path: { _like: $like } },
                { path: { _nlike: $checkpoint } },
                { path: { _nlike: $piscine } }
            ]
        }
        order_by: { createdAt: desc }
        limit: 4
    ) {
        object {
            type
            name
        }
    }
}
`

const XPQuery = `
query Transaction_aggregate($userId: Int!, $path: String!) {
    transaction_aggregate(
        where: {
            event: { path: { _eq: $path } }
            type: { _eq: "xp" }
            userId: { _eq: $userId }
        }
    ) {
        aggregate {
            sum {
                amount
            }
        }
    }
}
`

const AuditRatioQuery = `
query {
    user {
        totalUp
        totalDown
        auditRatio
    }
}
`

const SkillsQuery = `
query {
    user {
        transactions(
            where: { type: { _ilike: "%skill%" } },
            order_by: { amount: desc }
        ) {
            type
            amount
        }
    }
}
`

const TechSkillsQuery = `
query {
    user {
        transactions(where: { type: { _ilike: "%skill%" } }) {
            type
            amount
        }
    }
}
`
